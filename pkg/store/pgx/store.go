// Package pgx implements store.DocumentStore on Postgres with pgvector.
package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/lumina-kb/backend/pkg/store"
)

// Querier is the subset of pgx execution methods the store needs. Both
// *pgxpool.Pool and *pgxpool.Conn satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentDBStore implements store.DocumentStore over a single pgx querier.
type DocumentDBStore struct {
	conn Querier
}

// New creates a DocumentDBStore over the given querier.
func New(conn Querier) *DocumentDBStore {
	return &DocumentDBStore{conn: conn}
}

// SetDocumentStatus updates a document's lifecycle status.
func (s *DocumentDBStore) SetDocumentStatus(ctx context.Context, documentID string, status store.DocumentStatus) error {
	_, err := s.conn.Exec(
		ctx,
		`UPDATE documents SET status = $1 WHERE id = $2`,
		string(status),
		documentID,
	)
	return err
}

// GetDocumentDomain reads a document's domain tag. A NULL domain is returned
// as the empty string; the caller resolves it to the general strategy.
func (s *DocumentDBStore) GetDocumentDomain(ctx context.Context, documentID string) (string, error) {
	var domain *string
	err := s.conn.QueryRow(
		ctx,
		`SELECT domain FROM documents WHERE id = $1`,
		documentID,
	).Scan(&domain)
	if err != nil {
		return "", err
	}
	if domain == nil {
		return "", nil
	}
	return *domain, nil
}

// InsertChunk persists one text window with its embedding vector.
func (s *DocumentDBStore) InsertChunk(ctx context.Context, chunk store.Chunk) error {
	_, err := s.conn.Exec(
		ctx,
		`INSERT INTO embeddings (document_id, public_id, content, embedding) VALUES ($1, $2, $3, $4)`,
		chunk.DocumentID,
		chunk.PublicID,
		chunk.Content,
		pgvector.NewVector(chunk.Embedding),
	)
	return err
}

// UpsertNode inserts a node or, when (document_id, label) already exists,
// updates its type to the latest extraction. Returns the row's identifier
// either way.
func (s *DocumentDBStore) UpsertNode(ctx context.Context, node store.Node) (int64, error) {
	var id int64
	err := s.conn.QueryRow(
		ctx,
		`INSERT INTO nodes (document_id, label, type)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (document_id, label) DO UPDATE SET type = EXCLUDED.type
		 RETURNING id`,
		node.DocumentID,
		node.Label,
		node.Type,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// InsertEdge persists one relationship between two resolved nodes. No
// deduplication: repeated extraction passes may insert the same triple again.
func (s *DocumentDBStore) InsertEdge(ctx context.Context, edge store.Edge) error {
	_, err := s.conn.Exec(
		ctx,
		`INSERT INTO edges (document_id, source_node_id, target_node_id, relationship) VALUES ($1, $2, $3, $4)`,
		edge.DocumentID,
		edge.SourceNodeID,
		edge.TargetNodeID,
		edge.Relationship,
	)
	return err
}

// StorePool implements store.DocumentStorePool on a pgx connection pool.
// Each Acquire borrows one pooled connection for the duration of a pipeline
// run.
type StorePool struct {
	pool *pgxpool.Pool
}

// NewStorePool wraps a pgx pool.
func NewStorePool(pool *pgxpool.Pool) *StorePool {
	return &StorePool{pool: pool}
}

// Acquire borrows a connection and returns a store bound to it together with
// its release function.
func (p *StorePool) Acquire(ctx context.Context) (store.DocumentStore, func(), error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return New(conn), conn.Release, nil
}
