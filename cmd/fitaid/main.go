package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fitai/internal/app"
	"fitai/internal/config"
	"fitai/internal/rag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]
	cfgPath := os.Getenv("FITAI_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case "serve":
		runServe(ctx, cfg)
	case "worker":
		runWorker(ctx, cfg)
	default:
		usage()
	}
}

func runServe(ctx context.Context, cfg config.Config) {
	appInstance, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("app init error: %v", err)
	}
	defer appInstance.Close()

	ensureIndexes(ctx, appInstance)

	log.Printf("fitaid serving on %s", cfg.HTTP.Addr)
	if err := appInstance.Serve(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func runWorker(ctx context.Context, cfg config.Config) {
	appInstance, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("app init error: %v", err)
	}
	defer appInstance.Close()

	ensureIndexes(ctx, appInstance)

	log.Println("ingest worker started")
	if err := appInstance.WorkerLoop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker error: %v", err)
	}
}

func ensureIndexes(ctx context.Context, a *app.App) {
	for _, index := range []string{rag.MenuIndex, rag.InfoIndex} {
		if err := a.Search.EnsureIndex(ctx, index, a.Embedder.Dim()); err != nil {
			log.Printf("ensure index %s failed: %v", index, err)
		}
	}
}

func usage() {
	fmt.Println("Usage: fitaid <serve|worker>")
}
