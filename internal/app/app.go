package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"fitai/internal/api"
	"fitai/internal/auth"
	"fitai/internal/config"
	"fitai/internal/embed"
	"fitai/internal/ingest"
	"fitai/internal/llm"
	"fitai/internal/queue"
	"fitai/internal/rag"
	"fitai/internal/search"
	"fitai/internal/store"
)

type App struct {
	Config   config.Config
	Store    *store.Store
	Queue    *queue.Queue
	Search   *search.Client
	Embedder embed.Provider
	LLM      llm.Provider
	Auth     *auth.Service
	Pipeline *rag.Pipeline
	API      *api.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, st.DB()); err != nil {
		return nil, err
	}

	q, err := queue.New(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	searchClient := search.NewClient(cfg.OpenSearch.URL, cfg.OpenSearch.Username, cfg.OpenSearch.Password)

	llmProvider := selectLLM(cfg)
	embedder := selectEmbedder(cfg)

	authSvc := auth.NewService(cfg)
	audit := &store.PromptLogSink{Store: st}
	pipeline := rag.NewPipeline(embedder, searchClient, llmProvider, audit, cfg.Retrieval.KFactor, cfg.Retrieval.MinScore)
	handler := api.NewHandler(cfg, st, authSvc, pipeline, q)

	return &App{
		Config:   cfg,
		Store:    st,
		Queue:    q,
		Search:   searchClient,
		Embedder: embedder,
		LLM:      llmProvider,
		Auth:     authSvc,
		Pipeline: pipeline,
		API:      handler,
	}, nil
}

func (a *App) Close() error {
	var err error
	if a.Store != nil {
		err = a.Store.Close()
	}
	if a.Queue != nil {
		_ = a.Queue.Close()
	}
	return err
}

func (a *App) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.Store.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if err := a.Queue.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if err := a.Search.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	a.API.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

// WorkerLoop drains the ingestion queue until the context ends. A failed
// job is logged and dropped; the file stays on disk for a retry by hand.
func (a *App) WorkerLoop(ctx context.Context) error {
	worker := &ingest.Worker{Search: a.Search, Embedder: a.Embedder}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		job, err := a.Queue.PopIngestJob(ctx, 5*time.Second)
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("pop ingest job failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if err := worker.Run(ctx, job); err != nil {
			log.Printf("ingest job %s failed: %v", job.Path, err)
		}
	}
}

func selectLLM(cfg config.Config) llm.Provider {
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.OpenAIKey != "" {
			return llm.NewOpenAI(cfg.LLM.OpenAIKey, cfg.LLM.Model)
		}
	case "ollama":
		if cfg.LLM.OllamaURL != "" {
			return llm.NewOllama(cfg.LLM.OllamaURL, cfg.LLM.Model)
		}
	}
	return llm.NewNoop()
}

func selectEmbedder(cfg config.Config) embed.Provider {
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.LLM.OpenAIKey != "" {
			return embed.NewOpenAI(cfg.LLM.OpenAIKey, cfg.Embedding.Model, cfg.Embedding.Dim)
		}
	case "ollama":
		if cfg.LLM.OllamaURL != "" {
			return embed.NewOllama(cfg.LLM.OllamaURL, cfg.Embedding.Model, cfg.Embedding.Dim)
		}
	}
	return embed.NewNoop(cfg.Embedding.Dim)
}
