// Package store persists every completed graph.Factory run (component
// requirements and timing) as rows in SQLite via GORM, so the CLI can
// list past runs and httpserver can serve historical graphs instead of
// only the most recent one. Run is the single persisted model; this
// module has no other persistence need.
package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one persisted graph.Factory.Create invocation.
type Run struct {
	ID                    string `gorm:"primaryKey"`
	Component             string `gorm:"index"`
	ComponentRequirements string // JSON-encoded []string
	GraphJSON             string // serialized graph summary, opaque to this package
	DurationMs            int64
	CreatedAt             time.Time
}

// Store is the persistence contract: callers never reach inside a
// serialized graph, they round-trip it as an opaque blob.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, component string) ([]Run, error)
	LoadGraph(ctx context.Context, runID string) (string, error)
}

// GormStore is the default Store, backed by SQLite through GORM.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the Run
// schema. An empty dsn opens a fresh in-memory database private to
// this store, useful for tests and for a CLI run with no --db flag.
func Open(dsn string) (*GormStore, error) {
	inMemory := dsn == ""
	if inMemory {
		dsn = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if inMemory {
		// Each connection to ":memory:" is its own database, so the pool
		// is held to one connection for the schema and rows to persist.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// SaveRun inserts run, or updates it if a row with the same ID exists.
func (s *GormStore) SaveRun(ctx context.Context, run Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Save(&run).Error
}

// ListRuns returns every persisted run for component, most recent first.
// An empty component returns every run regardless of component.
func (s *GormStore) ListRuns(ctx context.Context, component string) ([]Run, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if component != "" {
		q = q.Where("component = ?", component)
	}
	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// LoadGraph returns the serialized graph JSON for runID.
func (s *GormStore) LoadGraph(ctx context.Context, runID string) (string, error) {
	var run Run
	if err := s.db.WithContext(ctx).First(&run, "id = ?", runID).Error; err != nil {
		return "", err
	}
	return run.GraphJSON, nil
}

// EncodeRequirements is a small helper so callers building a Run don't
// need to import encoding/json themselves.
func EncodeRequirements(reqs []string) string {
	b, _ := json.Marshal(reqs)
	return string(b)
}

// Transaction runs fn inside a database transaction, committing on
// success and rolling back if fn returns an error.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}
