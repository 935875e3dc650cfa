package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hikaya/internal/http/handlers"
	"hikaya/internal/http/httpapi"
	"hikaya/internal/infra"
	"hikaya/internal/providers/genai"
	"hikaya/internal/styles"
	"hikaya/internal/usage"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.GoogleAPIKey == "" {
		logger.Warn().Msg("GOOGLE_API_KEY not set; generation requests will fail")
	}

	ctx := context.Background()

	// Usage recording is optional: Mongo when MONGO_URL is set, Postgres
	// when DATABASE_URL is set, otherwise a no-op. A sink that cannot be
	// reached disables recording but never blocks startup.
	recorder := usage.Recorder(usage.NopRecorder{})
	switch {
	case cfg.MongoURL != "":
		client, err := infra.NewMongoClient(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("mongo unavailable; usage recording disabled")
		} else {
			defer func() {
				_ = client.Disconnect(context.Background())
			}()
			recorder = usage.NewMongoRecorder(client, cfg.DBName)
			logger.Info().Str("db", cfg.DBName).Msg("usage recording to mongo enabled")
		}
	case cfg.DatabaseURL != "":
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("postgres unavailable; usage recording disabled")
		} else {
			defer pool.Close()
			recorder = usage.NewPostgresRecorder(pool)
			logger.Info().Msg("usage recording to postgres enabled")
		}
	}

	gateway := genai.NewClient(genai.Options{
		APIKey:  cfg.GoogleAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})

	app := handlers.NewApp(logger, styles.NewCatalog(), gateway, recorder)
	router := httpapi.NewRouter(app, logger, cfg.DefaultLocale)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
