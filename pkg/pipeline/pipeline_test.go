package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lumina-kb/backend/pkg/ai"
	"github.com/lumina-kb/backend/pkg/store"
)

type fakeObjects struct {
	files map[string][]byte
	err   error
}

func (f *fakeObjects) GetFile(ctx context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	content, ok := f.files[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return content, nil
}

type fakeAIClient struct {
	embedErr   error
	extractErr error
}

func (f *fakeAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{float32(len(input))}, nil
}

func (f *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	if f.extractErr != nil {
		return f.extractErr
	}
	return nil
}

func (f *fakeAIClient) GenerateImageDescription(ctx context.Context, prompt string, image ai.ImageData, opts ...ai.GenerateOption) (string, error) {
	return "", nil
}

func (f *fakeAIClient) ResetMetrics() {}

func (f *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fakeStore struct {
	domain   string
	statuses []store.DocumentStatus
	chunks   []store.Chunk

	statusErr error
	chunkErr  error
}

func (f *fakeStore) SetDocumentStatus(ctx context.Context, documentID string, status store.DocumentStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeStore) GetDocumentDomain(ctx context.Context, documentID string) (string, error) {
	return f.domain, nil
}

func (f *fakeStore) InsertChunk(ctx context.Context, chunk store.Chunk) error {
	if f.chunkErr != nil {
		return f.chunkErr
	}
	f.chunks = append(f.chunks, chunk)
	return nil
}

func (f *fakeStore) UpsertNode(ctx context.Context, node store.Node) (int64, error) {
	return 1, nil
}

func (f *fakeStore) InsertEdge(ctx context.Context, edge store.Edge) error {
	return nil
}

type fakePool struct {
	store *fakeStore
}

func (f *fakePool) Acquire(ctx context.Context) (store.DocumentStore, func(), error) {
	return f.store, func() {}, nil
}

func newTestPipeline(objects *fakeObjects, storeClient *fakeStore, aiClient *fakeAIClient) *Pipeline {
	return New(NewPipelineParams{
		Objects:  objects,
		Stores:   &fakePool{store: storeClient},
		AIClient: aiClient,
	})
}

func lastStatus(t *testing.T, s *fakeStore) store.DocumentStatus {
	t.Helper()
	if len(s.statuses) == 0 {
		t.Fatalf("no status transitions recorded")
	}
	return s.statuses[len(s.statuses)-1]
}

func TestRunHappyPath(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("alpha beta gamma delta epsilon ", 100)
	objects := &fakeObjects{files: map[string][]byte{"docs/a.txt": []byte(text)}}
	storeClient := &fakeStore{domain: "sales"}
	pipe := newTestPipeline(objects, storeClient, &fakeAIClient{})

	if err := pipe.Run(context.Background(), "docs/a.txt", "doc-1"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := lastStatus(t, storeClient); got != store.StatusCompleted {
		t.Fatalf("final status = %q, want COMPLETED", got)
	}
	if storeClient.statuses[0] != store.StatusProcessing {
		t.Fatalf("first status = %q, want PROCESSING", storeClient.statuses[0])
	}
	if len(storeClient.chunks) == 0 {
		t.Fatalf("expected chunks to be persisted")
	}

	// Sales strategy: 800 rune windows with 150 overlap, persisted in order.
	for i, c := range storeClient.chunks {
		if c.DocumentID != "doc-1" {
			t.Fatalf("chunk %d document id = %q", i, c.DocumentID)
		}
		if c.PublicID == "" {
			t.Fatalf("chunk %d has no public id", i)
		}
		if len(c.Embedding) == 0 {
			t.Fatalf("chunk %d has no embedding", i)
		}
		if len([]rune(c.Content)) > 800 {
			t.Fatalf("chunk %d exceeds the sales window size", i)
		}
	}
	if !strings.HasPrefix(text, storeClient.chunks[0].Content) {
		t.Fatalf("first chunk is not the head of the text")
	}
}

func TestRunFailsOnEmptyExtraction(t *testing.T) {
	t.Parallel()

	objects := &fakeObjects{files: map[string][]byte{"docs/empty.txt": []byte("   \n\t ")}}
	storeClient := &fakeStore{}
	pipe := newTestPipeline(objects, storeClient, &fakeAIClient{})

	err := pipe.Run(context.Background(), "docs/empty.txt", "doc-1")
	if err == nil {
		t.Fatalf("expected error for empty extraction")
	}
	if got := lastStatus(t, storeClient); got != store.StatusFailed {
		t.Fatalf("final status = %q, want FAILED", got)
	}
	if len(storeClient.chunks) != 0 {
		t.Fatalf("no chunks must be persisted, got %d", len(storeClient.chunks))
	}
}

func TestRunFailsOnNulOnlyContent(t *testing.T) {
	t.Parallel()

	// NUL bytes are valid UTF-8, so they pass extraction but sanitize away
	// to nothing before persistence.
	objects := &fakeObjects{files: map[string][]byte{"docs/nuls.txt": {0, 0, 0}}}
	storeClient := &fakeStore{}
	pipe := newTestPipeline(objects, storeClient, &fakeAIClient{})

	err := pipe.Run(context.Background(), "docs/nuls.txt", "doc-1")
	if err == nil {
		t.Fatalf("expected error when sanitized text is empty")
	}
	if got := lastStatus(t, storeClient); got != store.StatusFailed {
		t.Fatalf("final status = %q, want FAILED", got)
	}
	if len(storeClient.chunks) != 0 {
		t.Fatalf("no chunks must be persisted, got %d", len(storeClient.chunks))
	}
}

func TestRunFailsOnMissingFile(t *testing.T) {
	t.Parallel()

	objects := &fakeObjects{files: map[string][]byte{}}
	storeClient := &fakeStore{}
	pipe := newTestPipeline(objects, storeClient, &fakeAIClient{})

	if err := pipe.Run(context.Background(), "docs/missing.txt", "doc-1"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if got := lastStatus(t, storeClient); got != store.StatusFailed {
		t.Fatalf("final status = %q, want FAILED", got)
	}
}

func TestRunEmbeddingFailureKeepsEarlierChunks(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("word ", 500)
	objects := &fakeObjects{files: map[string][]byte{"docs/a.txt": []byte(text)}}
	storeClient := &fakeStore{}
	pipe := newTestPipeline(objects, storeClient, &fakeAIClient{embedErr: errors.New("embedding backend down")})

	if err := pipe.Run(context.Background(), "docs/a.txt", "doc-1"); err == nil {
		t.Fatalf("expected error when embedding fails")
	}
	if got := lastStatus(t, storeClient); got != store.StatusFailed {
		t.Fatalf("final status = %q, want FAILED", got)
	}
}

func TestRunGraphFailureStillCompletes(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("word ", 500)
	objects := &fakeObjects{files: map[string][]byte{"docs/a.txt": []byte(text)}}
	storeClient := &fakeStore{}
	pipe := newTestPipeline(objects, storeClient, &fakeAIClient{extractErr: errors.New("model unavailable")})

	if err := pipe.Run(context.Background(), "docs/a.txt", "doc-1"); err != nil {
		t.Fatalf("graph extraction failure must not fail the run, got: %v", err)
	}
	if got := lastStatus(t, storeClient); got != store.StatusCompleted {
		t.Fatalf("final status = %q, want COMPLETED", got)
	}
	if len(storeClient.chunks) == 0 {
		t.Fatalf("chunks must survive a graph extraction failure")
	}
}

func TestRunUnknownDomainUsesGeneralStrategy(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 1500)
	objects := &fakeObjects{files: map[string][]byte{"docs/a.txt": []byte(text)}}
	storeClient := &fakeStore{domain: "martian-poetry"}
	pipe := newTestPipeline(objects, storeClient, &fakeAIClient{})

	if err := pipe.Run(context.Background(), "docs/a.txt", "doc-1"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// General strategy windows are 1000 runes with 200 overlap.
	if len(storeClient.chunks) != 2 {
		t.Fatalf("expected 2 chunks under the general strategy, got %d", len(storeClient.chunks))
	}
	if got := len([]rune(storeClient.chunks[0].Content)); got != 1000 {
		t.Fatalf("first chunk has %d runes, want 1000", got)
	}
}
