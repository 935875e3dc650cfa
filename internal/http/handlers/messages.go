package handlers

// Client-facing error details, keyed by condition then locale. The story
// deployment targets Arabic-speaking end users, so every client-caused
// condition carries an Arabic variant.
var messages = map[string]map[string]string{
	"missing_file": {
		"ar": "حقل الملف مطلوب",
		"en": "The file field is required",
	},
	"empty_file": {
		"ar": "الملف المرفوع فارغ",
		"en": "Empty file uploaded",
	},
	"invalid_image": {
		"ar": "تعذرت معالجة الصورة، الرجاء رفع صورة صالحة",
		"en": "Invalid image format",
	},
	"style_not_found": {
		"ar": "أسلوب القصة المحدد غير موجود",
		"en": "Unknown story style",
	},
	"content_blocked": {
		"ar": "تم حجب النتيجة لأسباب تتعلق بسياسات المحتوى",
		"en": "The result was withheld by the content policy",
	},
	"empty_result": {
		"ar": "لم يُرجع النموذج أي نص، جرب صورة أخرى",
		"en": "The model returned no text; try a different image",
	},
	"generation_failed": {
		"ar": "تعذر إنشاء النص، حاول مرة أخرى لاحقاً",
		"en": "Text generation failed; please try again later",
	},
}

func detail(key, locale string) string {
	byLocale, ok := messages[key]
	if !ok {
		return key
	}
	if msg, ok := byLocale[locale]; ok {
		return msg
	}
	return byLocale["en"]
}
