package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/digest/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/digest/internal/adapters/driven/storage/textmirror"
	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Store persists stage artifacts in a SQLite database.
type Store struct {
	db      *sql.DB
	path    string
	mirrors *textmirror.Writer
	now     func() time.Time
}

// DefaultDataDir returns ~/.digest/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".digest", "data"), nil
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.digest/data/digest.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		var err error
		if dataDir, err = DefaultDataDir(); err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "digest.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:      db,
		path:    dbPath,
		mirrors: textmirror.New(filepath.Join(dataDir, "outputs")),
		now:     time.Now,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := migrations.Load(fsys)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if m.Version <= currentVersion {
			continue
		}
		if err := s.applyMigration(m.Version, m.Up); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Read returns the artifact for a document stage.
func (s *Store) Read(ctx context.Context, documentID string, stage domain.Stage) (*domain.Artifact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT data, updated_at FROM artifacts WHERE document_id = ? AND stage = ?
	`, documentID, string(stage))

	var data string
	var updatedAt sql.NullTime
	if err := row.Scan(&data, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, documentID, stage)
		}
		return nil, fmt.Errorf("scanning artifact: %w", err)
	}

	art := &domain.Artifact{
		DocumentID: documentID,
		Stage:      stage,
		Data:       json.RawMessage(data),
	}
	if updatedAt.Valid {
		art.UpdatedAt = updatedAt.Time
	}
	return art, nil
}

// Write replaces the artifact for a document stage.
func (s *Store) Write(ctx context.Context, documentID string, stage domain.Stage, data json.RawMessage) error {
	if err := validate(documentID, stage); err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: artifact %s/%s is not valid JSON", domain.ErrInvalidInput, documentID, stage)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (document_id, stage, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id, stage) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, documentID, string(stage), string(data), s.now().UTC())
	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	return nil
}

// Mirror writes the flat-text copy of a stage under outputs/.
func (s *Store) Mirror(_ context.Context, documentID string, stage domain.Stage, text string) (string, error) {
	if err := validate(documentID, stage); err != nil {
		return "", err
	}
	return s.mirrors.Write(documentID, stage, text)
}

// List returns the stages stored for a document, sorted by name.
func (s *Store) List(ctx context.Context, documentID string) ([]domain.Stage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stage FROM artifacts WHERE document_id = ? ORDER BY stage
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying stages: %w", err)
	}
	defer rows.Close()

	var stages []domain.Stage
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, fmt.Errorf("scanning stage: %w", err)
		}
		stages = append(stages, domain.Stage(stage))
	}
	return stages, rows.Err()
}

// Delete removes every artifact of a document and its mirrors.
func (s *Store) Delete(ctx context.Context, documentID string) error {
	stages, err := s.List(ctx, documentID)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM artifacts WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting artifacts: %w", err)
	}
	return s.mirrors.Remove(documentID, stages)
}

func validate(documentID string, stage domain.Stage) error {
	if err := textmirror.ValidateID(documentID); err != nil {
		return err
	}
	if !stage.IsValid() {
		return fmt.Errorf("%w: stage %q", domain.ErrInvalidInput, stage)
	}
	return nil
}
