package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"finanzago-go-be/analysis"
	"finanzago-go-be/config"
	"finanzago-go-be/database"
	"finanzago-go-be/gateway"
	"finanzago-go-be/handlers"
	"finanzago-go-be/logging"
	"finanzago-go-be/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logging.New(false).Error(ctx, "load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Debug)

	// Connect to Database
	kv, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.Debug)
	if err != nil {
		log.Error(ctx, "open database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	gw, err := gateway.NewGemini(ctx, cfg.GeminiAPIKey, gateway.Models{
		Analysis: cfg.AnalysisModel,
		Image:    cfg.ImageModel,
		Chat:     cfg.ChatModel,
		Speech:   cfg.SpeechModel,
		Voice:    cfg.SpeechVoice,
	}, log)
	if err != nil {
		log.Error(ctx, "init gateway", "error", err)
		os.Exit(1)
	}

	registry := analysis.NewRegistry(gw, store.NewHistory(kv), log, analysis.Options{
		HistoryLimit:   cfg.HistoryLimit,
		GatewayTimeout: cfg.GatewayTimeout,
	})
	h := handlers.New(registry, store.NewSettings(kv), gw, log, handlers.Options{
		SecretKey:     cfg.SecretKey,
		TokenValidity: cfg.TokenValidity,
		FreeCredits:   cfg.FreeCredits,
	})

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "finanzago",
		BodyLimit: 32 * 1024 * 1024,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	h.Register(app.Group("/api/v1"))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info(ctx, "shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error(ctx, "shutdown", "error", err)
		}
	}()

	log.Info(ctx, "listening", "addr", cfg.ListenAddr, "driver", cfg.DatabaseDriver)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Error(ctx, "server stopped", "error", err)
	}
}
