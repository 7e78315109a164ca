package store

import (
	"context"
	"errors"
	"fmt"

	"presenvid/internal/config"
	"presenvid/internal/presentation"
)

// Sentinel errors surfaced by every backend. Callers match with errors.Is.
var (
	// ErrNotFound reports that no aggregate with the requested id exists in
	// the active backend.
	ErrNotFound = errors.New("presentation not found")
	// ErrUnavailable reports that the backend cannot be reached: the library
	// directory is missing or unreadable, or another process holds it.
	ErrUnavailable = errors.New("storage unavailable")
)

// ListItem is the lightweight listing row returned by List.
type ListItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Repository persists and retrieves Presentation aggregates.
//
// Create assigns the id; it must be unique within the backend and is never
// chosen by the caller. Save is a full overwrite of the stored aggregate and
// fails with ErrNotFound for unknown ids. Delete is idempotent: removing an
// absent id is not an error.
type Repository interface {
	List(ctx context.Context) ([]ListItem, error)
	Get(ctx context.Context, id int64) (*presentation.Presentation, error)
	Create(ctx context.Context, p *presentation.Presentation) (*presentation.Presentation, error)
	Save(ctx context.Context, p *presentation.Presentation) error
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Open constructs the repository selected by cfg.Storage.Backend. The
// backend is chosen once per session; switching is a configuration change,
// not a code change.
func Open(cfg *config.Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return OpenSQLite(cfg)
	case config.BackendDirectory:
		return OpenDirectory(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
