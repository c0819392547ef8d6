// Package db backs the vector index with a Postgres table carrying a
// pgvector column. Ranking uses the `<->` operator, so distances are
// L2; build and query embeddings must come from the same model.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"course-rag/internal/config"
	"course-rag/internal/models"
)

// CourseChunk is one stored chunk row. The frequently filtered
// metadata fields get their own columns; the rest lives in jsonb.
type CourseChunk struct {
	bun.BaseModel `bun:"table:course_chunks,alias:cc"`

	ID         int64             `bun:"id,pk,autoincrement"`
	Content    string            `bun:"content,notnull"`
	Embedding  []float32         `bun:"embedding,notnull,type:vector(768)"`
	Type       string            `bun:"type,notnull"`
	CohortName string            `bun:"cohort_name"`
	SourceURL  string            `bun:"source_url,notnull"`
	Metadata   map[string]string `bun:"metadata,type:jsonb"`
	Distance   float64           `bun:"distance,scanonly"`
}

func ConnectDB(cfg *config.StoreConfig) (*sql.DB, error) {
	dsn := cfg.PostgresDSN + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithPassword(cfg.PostgresKey),
	)), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*CourseChunk)(nil)).IfNotExists().Exec(ctx)
	return err
}

func DropChunks(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*CourseChunk)(nil)).IfExists().Exec(ctx)
	return err
}

// Store adapts the chunk table to the vector-index contract.
type Store struct {
	db         *bun.DB
	collection string
}

func NewStore(db *bun.DB, collection string) *Store {
	return &Store{db: db, collection: collection}
}

func (s *Store) Add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors",
			models.ErrArityMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	rows := make([]CourseChunk, len(chunks))
	for i, chunk := range chunks {
		meta := chunk.Meta.Flatten()
		rows[i] = CourseChunk{
			Content:    chunk.Content,
			Embedding:  vectors[i],
			Type:       meta[models.MetaKeyType],
			CohortName: meta[models.MetaKeyCohortName],
			SourceURL:  meta[models.MetaKeySourceURL],
			Metadata:   meta,
		}
	}

	_, err := s.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func (s *Store) Search(ctx context.Context, vector []float32, k int, filter map[string]string) ([]models.RetrievalResult, error) {
	var rows []CourseChunk
	q := s.db.NewSelect().
		Model(&rows).
		ColumnExpr("cc.*").
		ColumnExpr("cc.embedding <-> ? AS distance", vector).
		OrderExpr("cc.embedding <-> ?", vector).
		Limit(k)

	for key, value := range filter {
		switch key {
		case models.MetaKeyType:
			q = q.Where("cc.type = ?", value)
		case models.MetaKeyCohortName:
			q = q.Where("cc.cohort_name = ?", value)
		case models.MetaKeySourceURL:
			q = q.Where("cc.source_url = ?", value)
		default:
			q = q.Where("cc.metadata->>? = ?", key, value)
		}
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]models.RetrievalResult, len(rows))
	for i, row := range rows {
		out[i] = models.RetrievalResult{
			Content:  row.Content,
			Metadata: row.Metadata,
			Distance: float32(row.Distance),
		}
	}
	return out, nil
}

func (s *Store) Info(ctx context.Context) (models.IndexInfo, error) {
	count, err := s.db.NewSelect().Model((*CourseChunk)(nil)).Count(ctx)
	if err != nil {
		return models.IndexInfo{}, err
	}
	return models.IndexInfo{Collection: s.collection, Chunks: count}, nil
}

// Reset drops and recreates the chunk table for a rebuild.
func (s *Store) Reset(ctx context.Context) error {
	if err := DropChunks(ctx, s.db); err != nil {
		return err
	}
	return InitDB(ctx, s.db)
}

func (s *Store) Close() error {
	return s.db.Close()
}
