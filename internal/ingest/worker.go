package ingest

import (
	"context"
	"fmt"
	"log"
	"os"

	"fitai/internal/embed"
	"fitai/internal/queue"
	"fitai/internal/search"
)

// Worker turns queued upload directories into indexed, embedded chunks.
type Worker struct {
	Search   *search.Client
	Embedder embed.Provider
}

// Run processes one ingestion job: chunk, embed, bulk-index, then remove
// the upload directory.
func (w *Worker) Run(ctx context.Context, job queue.IngestJob) error {
	docs, err := LoadDir(job.Path)
	if err != nil {
		return fmt.Errorf("load %s: %w", job.Path, err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	vectors, err := w.Embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(docs))
	}
	for i := range docs {
		docs[i].Vector = vectors[i]
	}

	if err := w.Search.EnsureIndex(ctx, job.Index, w.Embedder.Dim()); err != nil {
		return fmt.Errorf("ensure index %s: %w", job.Index, err)
	}
	if err := w.Search.BulkIndex(ctx, job.Index, docs); err != nil {
		return fmt.Errorf("bulk index %s: %w", job.Index, err)
	}

	if err := os.RemoveAll(job.Path); err != nil {
		log.Printf("cleanup %s failed: %v", job.Path, err)
	}
	log.Printf("indexed %d chunks into %s", len(docs), job.Index)
	return nil
}
