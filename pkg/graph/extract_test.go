package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lumina-kb/backend/pkg/ai"
	"github.com/lumina-kb/backend/pkg/store"
	"github.com/lumina-kb/backend/pkg/strategy"
)

type fakeAIClient struct {
	response string
	err      error
}

func (f *fakeAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return []float32{0}, nil
}

func (f *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func (f *fakeAIClient) GenerateImageDescription(ctx context.Context, prompt string, image ai.ImageData, opts ...ai.GenerateOption) (string, error) {
	return "", nil
}

func (f *fakeAIClient) ResetMetrics() {}

func (f *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fakeStore struct {
	nodes      map[string]store.Node
	nodeIDs    map[string]int64
	edges      []store.Edge
	nextNodeID int64

	upsertErr error
	edgeErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes:   make(map[string]store.Node),
		nodeIDs: make(map[string]int64),
	}
}

func (f *fakeStore) SetDocumentStatus(ctx context.Context, documentID string, status store.DocumentStatus) error {
	return nil
}

func (f *fakeStore) GetDocumentDomain(ctx context.Context, documentID string) (string, error) {
	return "", nil
}

func (f *fakeStore) InsertChunk(ctx context.Context, chunk store.Chunk) error {
	return nil
}

func (f *fakeStore) UpsertNode(ctx context.Context, node store.Node) (int64, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	if id, ok := f.nodeIDs[node.Label]; ok {
		f.nodes[node.Label] = node
		return id, nil
	}
	f.nextNodeID++
	f.nodeIDs[node.Label] = f.nextNodeID
	f.nodes[node.Label] = node
	return f.nextNodeID, nil
}

func (f *fakeStore) InsertEdge(ctx context.Context, edge store.Edge) error {
	if f.edgeErr != nil {
		return f.edgeErr
	}
	f.edges = append(f.edges, edge)
	return nil
}

func TestExtractAndMerge(t *testing.T) {
	t.Parallel()

	aiClient := &fakeAIClient{
		response: `{
			"nodes": [
				{"label": "Acme Corp", "type": "Organization"},
				{"label": "Jane Doe", "type": "Person"}
			],
			"edges": [
				{"source": "Jane Doe", "target": "Acme Corp", "relationship": "WORKS_FOR"}
			]
		}`,
	}
	storeClient := newFakeStore()

	extractor := NewExtractor(aiClient)
	extractor.ExtractAndMerge(context.Background(), "some text", "doc-1", strategy.Resolve("general"), storeClient)

	if len(storeClient.nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(storeClient.nodes))
	}
	if len(storeClient.edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(storeClient.edges))
	}

	edge := storeClient.edges[0]
	if edge.SourceNodeID != storeClient.nodeIDs["Jane Doe"] || edge.TargetNodeID != storeClient.nodeIDs["Acme Corp"] {
		t.Fatalf("edge endpoints not resolved to node ids: %+v", edge)
	}
	if edge.Relationship != "WORKS_FOR" {
		t.Fatalf("relationship = %q, want WORKS_FOR", edge.Relationship)
	}
	if edge.DocumentID != "doc-1" {
		t.Fatalf("edge document id = %q, want doc-1", edge.DocumentID)
	}
}

func TestExtractAndMergeDropsUnresolvedEdges(t *testing.T) {
	t.Parallel()

	aiClient := &fakeAIClient{
		response: `{
			"nodes": [{"label": "Acme Corp", "type": "Organization"}],
			"edges": [
				{"source": "Bob", "target": "Acme Corp", "relationship": "WORKS_FOR"},
				{"source": "Acme Corp", "target": "Nowhere Inc", "relationship": "PARTNERS_WITH"}
			]
		}`,
	}
	storeClient := newFakeStore()

	extractor := NewExtractor(aiClient)
	extractor.ExtractAndMerge(context.Background(), "some text", "doc-1", strategy.Resolve("general"), storeClient)

	if len(storeClient.nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(storeClient.nodes))
	}
	if len(storeClient.edges) != 0 {
		t.Fatalf("edges with unresolved endpoints must be dropped, got %d", len(storeClient.edges))
	}
}

func TestExtractAndMergeUpdatesNodeType(t *testing.T) {
	t.Parallel()

	storeClient := newFakeStore()
	extractor := NewExtractor(&fakeAIClient{
		response: `{"nodes": [{"label": "Acme Corp", "type": "Organization"}], "edges": []}`,
	})
	extractor.ExtractAndMerge(context.Background(), "text", "doc-1", strategy.Resolve("general"), storeClient)

	extractor = NewExtractor(&fakeAIClient{
		response: `{"nodes": [{"label": "Acme Corp", "type": "Company"}], "edges": []}`,
	})
	extractor.ExtractAndMerge(context.Background(), "text", "doc-1", strategy.Resolve("general"), storeClient)

	if len(storeClient.nodes) != 1 {
		t.Fatalf("re-extraction of a label must not create a second node, got %d", len(storeClient.nodes))
	}
	if got := storeClient.nodes["Acme Corp"].Type; got != "Company" {
		t.Fatalf("node type = %q, want latest extraction Company", got)
	}
}

func TestExtractAndMergeSwallowsAIError(t *testing.T) {
	t.Parallel()

	storeClient := newFakeStore()
	extractor := NewExtractor(&fakeAIClient{err: errors.New("model unavailable")})

	extractor.ExtractAndMerge(context.Background(), "some text", "doc-1", strategy.Resolve("general"), storeClient)

	if len(storeClient.nodes) != 0 || len(storeClient.edges) != 0 {
		t.Fatalf("nothing must be persisted after an extraction failure")
	}
}

func TestExtractAndMergeAbortsOnStoreError(t *testing.T) {
	t.Parallel()

	storeClient := newFakeStore()
	storeClient.upsertErr = errors.New("connection reset")

	extractor := NewExtractor(&fakeAIClient{
		response: `{
			"nodes": [{"label": "Acme Corp", "type": "Organization"}],
			"edges": [{"source": "Acme Corp", "target": "Acme Corp", "relationship": "SELF"}]
		}`,
	})
	extractor.ExtractAndMerge(context.Background(), "some text", "doc-1", strategy.Resolve("general"), storeClient)

	if len(storeClient.edges) != 0 {
		t.Fatalf("edge insertion must not run after a node persistence failure")
	}
}
