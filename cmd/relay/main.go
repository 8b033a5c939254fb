package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadapter "github.com/satriahrh/nova-ai/adapters/http"
	"github.com/satriahrh/nova-ai/adapters/hasher"
	"github.com/satriahrh/nova-ai/adapters/llm"
	"github.com/satriahrh/nova-ai/adapters/websocket"
	"github.com/satriahrh/nova-ai/config"
	"github.com/satriahrh/nova-ai/usecase"
	"github.com/satriahrh/nova-ai/utils/log"
)

func main() {
	defer log.Sync()

	cfg, err := config.Load()
	log.With(
		zap.Bool("api_key_loaded", cfg.APIKey != ""),
		zap.String("api_key_fingerprint", hasher.New().Fingerprint(cfg.APIKey)),
	).Info("Configuration loaded")
	if err != nil {
		log.With(zap.Error(err)).Fatal("Refusing to start")
	}

	ctx := context.Background()
	gemini, err := llm.New(ctx, cfg)
	if err != nil {
		log.With(zap.Error(err)).Fatal("Error configuring Gemini")
	}
	defer gemini.Close()
	log.With(zap.String("backend", cfg.Backend), zap.String("model", cfg.Model)).Info("Gemini configured successfully")

	if models, err := gemini.ListModels(ctx); err != nil {
		log.With(zap.Error(err)).Warn("Could not list available models")
	} else {
		log.With(zap.Strings("models", models)).Info("Available models")
	}

	svc := usecase.NewChatService(gemini)
	chatHandler := httpadapter.NewChatHandler(svc, cfg.StaticDir)

	server := websocket.NewServer(svc)
	server.RunWebsocketHub()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpadapter.ErrorHandler

	e.Use(middleware.RequestID())
	e.Use(httpadapter.RequestContext)
	e.Use(httpadapter.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	e.GET("/ws", server.Handler)
	chatHandler.Register(e)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.With(zap.Int("websocket_clients", server.GetHub().ClientCount())).Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			log.With(zap.Error(err)).Error("Shutdown failed")
		}
	}()

	log.With(zap.String("addr", cfg.Addr())).Info("Starting Nova AI server")
	log.With().Info("Available endpoints:\n" +
		"  GET  /       - index page\n" +
		"  GET  /test   - liveness\n" +
		"  POST /chat   - single-turn chat\n" +
		"  GET  /ws     - WebSocket chat session\n" +
		"  GET  /<path> - static files")
	if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.With(zap.Error(err)).Fatal("Server error")
	}
}
