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

	"github.com/aseed/a-seed/backend/internal/config"
	"github.com/aseed/a-seed/backend/internal/handler"
	"github.com/aseed/a-seed/backend/internal/model/user"
	aiservice "github.com/aseed/a-seed/backend/internal/service/ai"
	authservice "github.com/aseed/a-seed/backend/internal/service/auth"
	chatservice "github.com/aseed/a-seed/backend/internal/service/chat"
	"github.com/aseed/a-seed/backend/internal/service/stats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.Store.SessionsDir(), 0o755); err != nil {
		log.Fatalf("failed to create data directories: %v", err)
	}

	users, err := user.NewFileStore(cfg.Store.UsersFile())
	if err != nil {
		log.Fatalf("failed to open user store: %v", err)
	}

	sessions := authservice.NewManager(cfg.Auth.SecretKey)
	store := chatservice.NewService(cfg.Store.SessionsDir())
	ai := aiservice.NewService(cfg.AI)
	statsSvc := stats.NewService(cfg.AI.Host, cfg.AI.Model, ai.Backend())

	// An admin restart cancels the root context; the supervisor is
	// expected to start a fresh process once this one drains.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	router := handler.NewRouter(handler.Deps{
		Users:    users,
		Sessions: sessions,
		Store:    store,
		AI:       ai,
		Stats:    statsSvc,
		Admin:    cfg.Admin,
		Restart:  cancel,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("A SEED backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
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
