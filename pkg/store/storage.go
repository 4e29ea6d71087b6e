// Package store defines the persistence contracts the ingestion pipeline
// writes through. Implementations are auto-committing: every operation is a
// single statement and no transaction spans a pipeline run.
package store

import "context"

// DocumentStatus is the lifecycle state of a document. It is the single
// source of truth for job progress; external callers observe a run only by
// polling it.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "PENDING"
	StatusProcessing DocumentStatus = "PROCESSING"
	StatusCompleted  DocumentStatus = "COMPLETED"
	StatusFailed     DocumentStatus = "FAILED"
)

// Chunk is a persisted text window with its embedding vector. Insertion order
// preserves chunk order within a document.
type Chunk struct {
	DocumentID string
	PublicID   string
	Content    string
	Embedding  []float32
}

// Node is a typed entity extracted from a document. (DocumentID, Label) is
// unique; re-extraction of a label updates its type.
type Node struct {
	DocumentID string
	Label      string
	Type       string
}

// Edge is a typed relationship between two resolved nodes of the same
// document. Edges are not deduplicated.
type Edge struct {
	DocumentID   string
	SourceNodeID int64
	TargetNodeID int64
	Relationship string
}

// DocumentStore is the per-run persistence handle.
type DocumentStore interface {
	SetDocumentStatus(ctx context.Context, documentID string, status DocumentStatus) error
	GetDocumentDomain(ctx context.Context, documentID string) (string, error)
	InsertChunk(ctx context.Context, chunk Chunk) error
	UpsertNode(ctx context.Context, node Node) (int64, error)
	InsertEdge(ctx context.Context, edge Edge) error
}

// DocumentStorePool hands out DocumentStore handles backed by pooled
// connections. A pipeline run borrows one handle for its whole duration and
// releases it when done; the pool's own accounting is the only locking
// involved.
type DocumentStorePool interface {
	Acquire(ctx context.Context) (DocumentStore, func(), error)
}
