package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"presenvid/internal/config"
	"presenvid/internal/presentation"
)

// SQLiteRepository stores each presentation aggregate inside a single SQLite
// database. Every aggregate write runs in one transaction, so a stored
// presentation is always internally consistent.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

// OpenSQLite initializes or connects to the presentation database under the
// library directory and applies migrations.
func OpenSQLite(cfg *config.Config) (*SQLiteRepository, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	dbPath := filepath.Join(cfg.Paths.LibraryDir, "presentations.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %w", ErrUnavailable, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: apply pragma %q: %w", ErrUnavailable, pragma, execErr)
		}
	}

	repo := &SQLiteRepository{db: db, path: dbPath}
	if err := repo.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return repo, nil
}

// Close closes the underlying database connection.
func (s *SQLiteRepository) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns {id, title} rows ordered by id.
func (s *SQLiteRepository) List(ctx context.Context) ([]ListItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM presentations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()

	var items []ListItem
	for rows.Next() {
		var item ListItem
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get fetches a full aggregate including binary payloads.
func (s *SQLiteRepository) Get(ctx context.Context, id int64) (*presentation.Presentation, error) {
	p := &presentation.Presentation{ID: id}
	row := s.db.QueryRowContext(ctx, `SELECT title, width, height FROM presentations WHERE id = ?`, id)
	if err := row.Scan(&p.Title, &p.Width, &p.Height); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get presentation: %w", err)
	}

	if err := s.loadSlides(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteRepository) loadSlides(ctx context.Context, p *presentation.Presentation) error {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, uid, title, image, selected_audio_uid FROM slides WHERE presentation_id = ? ORDER BY position`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("load slides: %w", err)
	}
	defer rows.Close()

	var slideRowIDs []int64
	for rows.Next() {
		var rowID int64
		var slide presentation.Slide
		var selected sql.NullString
		if err := rows.Scan(&rowID, &slide.UID, &slide.Title, &slide.Image, &selected); err != nil {
			return err
		}
		slide.SelectedAudioUID = selected.String
		p.Slides = append(p.Slides, slide)
		slideRowIDs = append(slideRowIDs, rowID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range p.Slides {
		if err := s.loadAudios(ctx, slideRowIDs[i], &p.Slides[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteRepository) loadAudios(ctx context.Context, slideRowID int64, slide *presentation.Slide) error {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT uid, title, blob, preview_blob, duration_ms FROM audios WHERE slide_id = ? ORDER BY position`,
		slideRowID,
	)
	if err != nil {
		return fmt.Errorf("load audios: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var audio presentation.Audio
		var preview []byte
		if err := rows.Scan(&audio.UID, &audio.Title, &audio.Blob, &preview, &audio.DurationMillisec); err != nil {
			return err
		}
		audio.BlobForPreview = preview
		slide.Audios = append(slide.Audios, audio)
	}
	return rows.Err()
}

// Create inserts a new aggregate and returns it with the assigned id.
func (s *SQLiteRepository) Create(ctx context.Context, p *presentation.Presentation) (*presentation.Presentation, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate presentation: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO presentations (title, width, height, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.Title, p.Width, p.Height, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert presentation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := insertSlides(ctx, tx, id, p.Slides); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	created := p.Clone()
	created.ID = id
	return created, nil
}

// Save overwrites the stored aggregate by id in a single transaction.
func (s *SQLiteRepository) Save(ctx context.Context, p *presentation.Presentation) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate presentation: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(
		ctx,
		`UPDATE presentations SET title = ?, width = ?, height = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Width, p.Height, now, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update presentation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, p.ID)
	}

	// Full overwrite: drop owned rows and reinsert in order. Audio rows go
	// with their slides through the cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM slides WHERE presentation_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear slides: %w", err)
	}
	if err := insertSlides(ctx, tx, p.ID, p.Slides); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Delete removes an aggregate and everything it owns. Absent ids are not an
// error.
func (s *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM presentations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete presentation: %w", err)
	}
	return nil
}

func insertSlides(ctx context.Context, tx *sql.Tx, presentationID int64, slides []presentation.Slide) error {
	for pos := range slides {
		slide := &slides[pos]
		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO slides (presentation_id, uid, position, title, image, selected_audio_uid)
             VALUES (?, ?, ?, ?, ?, ?)`,
			presentationID, slide.UID, pos, slide.Title, slide.Image, nullableString(slide.SelectedAudioUID),
		)
		if err != nil {
			return fmt.Errorf("insert slide %s: %w", slide.UID, err)
		}
		slideRowID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("slide row id: %w", err)
		}
		for apos := range slide.Audios {
			audio := &slide.Audios[apos]
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO audios (slide_id, uid, position, title, blob, preview_blob, duration_ms)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				slideRowID, audio.UID, apos, audio.Title, audio.Blob, nullableBytes(audio.BlobForPreview), audio.DurationMillisec,
			); err != nil {
				return fmt.Errorf("insert audio %s: %w", audio.UID, err)
			}
		}
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableBytes(value []byte) any {
	if len(value) == 0 {
		return nil
	}
	return value
}

// DatabaseHealth reports diagnostic information about the backing database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	TotalItems       int
	IntegrityCheck   bool
	Error            string
}

// CheckHealth returns diagnostic information about the presentation database.
func (s *SQLiteRepository) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("presentation database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat presentation database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("presentation database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping presentation database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'presentations'")
	if err := row.Scan(&tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			health.TableExists = false
		} else {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
	} else {
		health.TableExists = true
	}

	if health.TableExists {
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM presentations")
		if err := row.Scan(&health.TotalItems); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count presentations: %w", err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

var _ Repository = (*SQLiteRepository)(nil)
