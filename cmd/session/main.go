package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/adapters/console"
	"github.com/satriahrh/nova-ai/adapters/llm"
	"github.com/satriahrh/nova-ai/adapters/tui"
	"github.com/satriahrh/nova-ai/config"
	"github.com/satriahrh/nova-ai/usecase"
	"github.com/satriahrh/nova-ai/utils/log"
)

func main() {
	plain := flag.Bool("plain", false, "Use a line console instead of the terminal UI")
	flag.Parse()

	if err := run(*plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(plain bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// the terminal UI owns the screen, so logs go to LOG_PATH or nowhere
	if !plain || cfg.LogPath != "" {
		if err := log.ToFile(cfg.LogPath, cfg.Debug); err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
	}
	defer log.Sync()

	ctx := context.Background()
	gemini, err := llm.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer gemini.Close()

	svc := usecase.NewChatService(gemini)
	sessionID := usecase.NewSessionID()
	log.With(zap.String("model", cfg.Model), zap.String(string(log.SessionIDKey), sessionID)).Info("Session script started")

	if plain {
		return console.New(os.Stdin, os.Stdout, svc, sessionID).Run(ctx)
	}
	return tui.New(ctx, svc, sessionID).Run()
}
