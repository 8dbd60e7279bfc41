package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"autopost/db"
	"autopost/internal/app"
	"autopost/internal/config"
	"autopost/internal/handler"
	"autopost/internal/metrics"
	"autopost/internal/session"
	"autopost/pkg/medium"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.ValidateOAuth(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var store session.Store
	if cfg.SessionStore == config.SessionStoreRedis {
		client, err := db.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer client.Close()
		store = session.NewRedisStore(client, cfg.SessionTTL)
	} else {
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	tokens := medium.NewTokenManager(medium.OAuthConfig{
		ClientID:     cfg.MediumClientID,
		ClientSecret: cfg.MediumClientSecret,
		CallbackURL:  cfg.MediumCallback,
		AuthorizeURL: cfg.MediumAuthorizeURL,
		APIURL:       cfg.MediumAPIURL,
	}, store, &http.Client{Timeout: cfg.PublishTimeout})

	orchestrator := app.NewOrchestrator(cfg)

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		slog.Warn("SESSION_SECRET not set, sessions will not survive a restart")
		secret = securecookie.GenerateRandomKey(32)
	}

	authHandler := handler.NewAuthHandler(tokens)
	pipelineHandler := handler.NewPipelineHandler(orchestrator, tokens)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware())
	r.Use(handler.SessionMiddleware(handler.SessionOptions{
		Secret: secret,
		MaxAge: int(cfg.SessionTTL.Seconds()),
		Secure: strings.HasPrefix(cfg.MediumCallback, "https://"),
	}))

	r.GET("/test", handler.Liveness)
	r.GET("/health", pipelineHandler.GetHealth)
	r.GET("/login", authHandler.Login)
	r.GET("/callback", authHandler.Callback)
	r.GET("/access-token", authHandler.AccessToken)
	r.POST("/update-feeds", pipelineHandler.UpdateFeeds)
	r.GET("/runs/last", pipelineHandler.LastRun)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	slog.Info("starting server", "port", cfg.Port, "feeds", len(cfg.Feeds), "llm", cfg.LLMProvider, "sessions", cfg.SessionStore)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
