package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/pagechat-service/internal/adapter/anthropic"
	"github.com/user/pagechat-service/internal/adapter/chromedp_renderer"
	"github.com/user/pagechat-service/internal/adapter/memory"
	redis_adapter "github.com/user/pagechat-service/internal/adapter/redis"
	"github.com/user/pagechat-service/internal/delivery/http/handler"
	"github.com/user/pagechat-service/internal/delivery/http/router"
	"github.com/user/pagechat-service/internal/ratelimit"
	"github.com/user/pagechat-service/internal/repository"
	"github.com/user/pagechat-service/internal/safety"
	"github.com/user/pagechat-service/internal/usecase"
	"github.com/user/pagechat-service/pkg/config"
	"github.com/user/pagechat-service/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.Log.Level)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Session store ---
	var sessions repository.SessionRepository
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		sessions = redis_adapter.NewSessionRepo(rdb, cfg.Redis.SessionTTL)
		slog.Info("Redis session store established", "addr", cfg.Redis.Addr)
	} else {
		sessions = memory.NewSessionRepo()
		slog.Info("In-memory session store selected")
	}

	// --- Safety gates and rate limiter ---
	policy := safety.DefaultPolicy()
	guard := safety.NewGuard(policy, nil)
	limiter := ratelimit.New(cfg.Scraper.RateLimitDelay())

	// --- Adapters ---
	renderer := chromedp_renderer.New(chromedp_renderer.Options{
		NavigationTimeout: cfg.Browser.NavigationTimeout(),
		SettleWait:        cfg.Browser.SettleWait(),
		UserAgent:         cfg.Browser.UserAgent,
		AcceptHeader:      cfg.Browser.AcceptHeader,
		MaxConcurrency:    cfg.Browser.MaxConcurrency,
	})
	generator := anthropic.NewGenerator(cfg.Analyzer.APIKey, cfg.Analyzer.Model, cfg.Analyzer.MaxTokens)

	// --- Use Cases ---
	scraper := usecase.NewScraper(policy, guard, limiter, renderer, sessions, generator, usecase.Limits{
		MaxContentChars: cfg.Analyzer.MaxContentChars,
		MaxTables:       cfg.Analyzer.MaxTables,
		MaxQueryLength:  cfg.Scraper.MaxQueryLength,
	})

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(scraper)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.Server.Port, "error", err)
		os.Exit(1)
	}
}
