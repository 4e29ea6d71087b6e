// Package pipeline orchestrates a document ingestion run: fetch, extract,
// chunk, embed, persist, then graph extraction. One run processes one
// document end to end on a single borrowed store connection.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lumina-kb/backend/internal/util"
	"github.com/lumina-kb/backend/pkg/ai"
	"github.com/lumina-kb/backend/pkg/chunk"
	"github.com/lumina-kb/backend/pkg/extract"
	"github.com/lumina-kb/backend/pkg/graph"
	"github.com/lumina-kb/backend/pkg/logger"
	"github.com/lumina-kb/backend/pkg/store"
	"github.com/lumina-kb/backend/pkg/strategy"
)

// ObjectStore fetches raw document bytes by key.
type ObjectStore interface {
	GetFile(ctx context.Context, key string) ([]byte, error)
}

// Pipeline runs document ingestion jobs.
type Pipeline struct {
	objects   ObjectStore
	stores    store.DocumentStorePool
	aiClient  ai.DocAIClient
	extractor *extract.Extractor
	graph     *graph.Extractor
}

// NewPipelineParams holds the dependencies of a Pipeline.
type NewPipelineParams struct {
	Objects  ObjectStore
	Stores   store.DocumentStorePool
	AIClient ai.DocAIClient
}

// New creates a Pipeline.
func New(params NewPipelineParams) *Pipeline {
	return &Pipeline{
		objects:   params.Objects,
		stores:    params.Stores,
		aiClient:  params.AIClient,
		extractor: extract.NewExtractor(params.AIClient),
		graph:     graph.NewExtractor(params.AIClient),
	}
}

// StartRun launches an ingestion run in the background. There is no retry:
// the run's outcome is observable only through the document's status.
func (p *Pipeline) StartRun(fileKey string, documentID string) {
	go func() {
		if err := p.Run(context.Background(), fileKey, documentID); err != nil {
			logger.Error("[Pipeline] Run failed", "document_id", documentID, "file_key", fileKey, "err", err)
		}
	}()
}

// Run processes one document synchronously. On any failure past the store
// acquisition the document's status is set to FAILED; chunks persisted before
// the failure are kept.
func (p *Pipeline) Run(ctx context.Context, fileKey string, documentID string) error {
	storeClient, release, err := p.stores.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire store: %w", err)
	}
	defer release()

	if err := p.run(ctx, storeClient, fileKey, documentID); err != nil {
		if statusErr := storeClient.SetDocumentStatus(ctx, documentID, store.StatusFailed); statusErr != nil {
			logger.Error("[Pipeline] Failed to mark document as failed", "document_id", documentID, "err", statusErr)
		}
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, storeClient store.DocumentStore, fileKey string, documentID string) error {
	logger.Info("[Pipeline] Starting run", "document_id", documentID, "file_key", fileKey)
	p.aiClient.ResetMetrics()

	if err := storeClient.SetDocumentStatus(ctx, documentID, store.StatusProcessing); err != nil {
		return fmt.Errorf("failed to mark document as processing: %w", err)
	}

	domain, err := storeClient.GetDocumentDomain(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to read document domain: %w", err)
	}
	strat := strategy.Resolve(domain)
	logger.Info("[Pipeline] Resolved strategy", "document_id", documentID, "domain", strat.Domain)

	content, err := p.objects.GetFile(ctx, fileKey)
	if err != nil {
		return fmt.Errorf("failed to fetch file %s: %w", fileKey, err)
	}

	// Sanitize before the emptiness check so text made of nothing but NUL
	// bytes or invalid UTF-8 fails the run instead of completing chunkless.
	text := util.SanitizePostgresText(p.extractor.ExtractText(ctx, content, fileKey))
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text extracted from %s", fileKey)
	}

	chunks, err := chunk.Split(text, strat.ChunkSize, strat.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("failed to chunk text: %w", err)
	}
	logger.Info("[Pipeline] Chunked text", "document_id", documentID, "chunks", len(chunks))

	for i, content := range chunks {
		embedding, err := p.aiClient.GenerateEmbedding(ctx, []byte(content))
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		publicID, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate chunk id: %w", err)
		}

		err = storeClient.InsertChunk(ctx, store.Chunk{
			DocumentID: documentID,
			PublicID:   publicID,
			Content:    content,
			Embedding:  embedding,
		})
		if err != nil {
			return fmt.Errorf("failed to persist chunk %d: %w", i, err)
		}
	}

	p.graph.ExtractAndMerge(ctx, text, documentID, strat, storeClient)

	if err := storeClient.SetDocumentStatus(ctx, documentID, store.StatusCompleted); err != nil {
		return fmt.Errorf("failed to mark document as completed: %w", err)
	}

	metrics := p.aiClient.GetMetrics()
	logger.Info("[Pipeline] Run completed",
		"document_id", documentID,
		"chunks", len(chunks),
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"duration_ms", metrics.DurationMs,
	)
	return nil
}
