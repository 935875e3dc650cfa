package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey stores the resolved request locale in the request context.
var LocaleKey = localeContextKey{}

var supportedLocales = []language.Tag{
	language.Arabic, // index 0: matcher default
	language.English,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var localeNames = map[language.Tag]string{
	language.Arabic:  "ar",
	language.English: "en",
}

// I18N resolves the request locale from X-Locale then Accept-Language and
// stores it in the context. Unknown or missing hints fall back to
// defaultLocale.
func I18N(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string) string {
	header := r.Header.Get("X-Locale")
	if header == "" {
		header = r.Header.Get("Accept-Language")
	}
	if header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			if _, idx, conf := localeMatcher.Match(tags...); conf > language.No {
				return localeNames[supportedLocales[idx]]
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "ar"
}

// LocaleFromContext returns the resolved locale, defaulting to Arabic since
// the deployment targets Arabic-speaking end users.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "ar"
}
