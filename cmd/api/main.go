package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/internal/config"
	"github.com/fuadeditingzone/fuadbot-backend/internal/handler"
	"github.com/fuadeditingzone/fuadbot-backend/internal/handler/events"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/ai"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/conversation"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/history"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/reaction"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/settings"
	"github.com/fuadeditingzone/fuadbot-backend/internal/store"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Bot.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	kv, err := store.Open(cfg.Bot.DataDir)
	if err != nil {
		logger.Log.Fatal("failed to open local store", zap.Error(err))
	}
	defer kv.Close()

	histories := history.NewService(kv)
	settingsSvc := settings.NewService(kv)

	// A failed probe leaves the factory permanently offline; the widget
	// degrades to its offline banner instead of the process dying.
	aiSvc, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		logger.Log.Warn("ai service unavailable, widget starts offline", zap.Error(err))
	}

	classifier, err := reaction.NewService(ctx, cfg.AI, cfg.Bot)
	if err != nil {
		logger.Log.Warn("reaction classifier unavailable", zap.Error(err))
	}

	hub := events.NewHub()
	orch := conversation.New(conversation.Config{
		ContextWindow:    cfg.Bot.ContextWindow,
		ReactionDelayMin: cfg.Bot.ReactionDelayMin,
		ReactionDelayMax: cfg.Bot.ReactionDelayMax,
	}, histories, aiSvc, classifier, hub, hub, kv)

	router := handler.NewRouter(orch, settingsSvc, hub)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Log.Info("fuadbot backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Log.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
