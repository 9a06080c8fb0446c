package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// DefaultFile is the database file name used when no path is given.
const DefaultFile = "creatures.db"

// Store is a SQLite-backed creature collection with sequential ids.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and runs migrations.
// If path is empty, defaults to ~/.bestiary/data/creatures.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".bestiary", "data", DefaultFile)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

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

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_creatures.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM creatures").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting creatures: %w", err)
	}
	return n, nil
}

// Replace swaps the whole collection in one transaction.
// Records without an id are numbered after the highest given id.
func (s *Store) Replace(ctx context.Context, records []domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM creatures"); err != nil {
		return fmt.Errorf("clearing creatures: %w", err)
	}

	// Explicit ids first so unnumbered records land after them.
	ordered := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if !rec.IsNew() {
			ordered = append(ordered, rec)
		}
	}
	for _, rec := range records {
		if rec.IsNew() {
			ordered = append(ordered, rec)
		}
	}

	for _, rec := range ordered {
		if _, err := insert(ctx, tx, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}
	return nil
}

// SeedIfEmpty stores records only when the collection has none.
func (s *Store) SeedIfEmpty(ctx context.Context, records []domain.Record) error {
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.Replace(ctx, records)
}

// List returns every record ordered by id.
func (s *Store) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hp, cp, picture, types, created
		FROM creatures ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying creatures: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Get retrieves a record by id.
func (s *Store) Get(ctx context.Context, id int) (*domain.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, hp, cp, picture, types, created
		FROM creatures WHERE id = ?
	`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Search returns records whose name contains name, ignoring case.
func (s *Store) Search(ctx context.Context, name string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hp, cp, picture, types, created
		FROM creatures WHERE instr(lower(name), lower(?)) > 0 ORDER BY id
	`, name)
	if err != nil {
		return nil, fmt.Errorf("searching creatures: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Create stores a new record and returns it with its assigned id.
func (s *Store) Create(ctx context.Context, rec domain.Record) (domain.Record, error) {
	if !rec.IsNew() {
		return domain.Record{}, fmt.Errorf("%w: new record already has id %d", domain.ErrInvalidInput, rec.ID)
	}

	id, err := insert(ctx, s.db, rec)
	if err != nil {
		return domain.Record{}, err
	}
	rec.ID = id
	return rec, nil
}

// Update replaces an existing record.
func (s *Store) Update(ctx context.Context, rec domain.Record) error {
	types, err := marshalTypes(rec.Categories)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE creatures SET name = ?, hp = ?, cp = ?, picture = ?, types = ?, created = ?
		WHERE id = ?
	`, rec.Name, rec.HP, rec.CP, rec.Picture, types, formatCreated(rec.Created), rec.ID)
	if err != nil {
		return fmt.Errorf("updating creature: %w", err)
	}
	return expectOneRow(res, rec.ID)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM creatures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting creature: %w", err)
	}
	return expectOneRow(res, id)
}

// ==================== Helper Functions ====================

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insert stores rec, letting SQLite assign the id when rec has none.
func insert(ctx context.Context, db execer, rec domain.Record) (int, error) {
	types, err := marshalTypes(rec.Categories)
	if err != nil {
		return 0, err
	}

	var id any
	if !rec.IsNew() {
		id = rec.ID
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO creatures (id, name, hp, cp, picture, types, created)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, rec.Name, rec.HP, rec.CP, rec.Picture, types, formatCreated(rec.Created))
	if err != nil {
		return 0, fmt.Errorf("inserting creature: %w", err)
	}

	newID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading creature id: %w", err)
	}
	return int(newID), nil
}

func expectOneRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func marshalTypes(categories []string) (string, error) {
	if categories == nil {
		categories = []string{}
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return "", fmt.Errorf("marshalling types: %w", err)
	}
	return string(data), nil
}

func formatCreated(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

// scanRecord scans one creature row using the given Scan function.
func scanRecord(scan func(dest ...any) error) (domain.Record, error) {
	var rec domain.Record
	var typesJSON string
	var created sql.NullString

	if err := scan(&rec.ID, &rec.Name, &rec.HP, &rec.CP, &rec.Picture, &typesJSON, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning creature: %w", err)
	}

	if err := json.Unmarshal([]byte(typesJSON), &rec.Categories); err != nil {
		return rec, fmt.Errorf("unmarshalling types: %w", err)
	}

	if created.Valid && created.String != "" {
		t, err := time.Parse(time.RFC3339Nano, created.String)
		if err != nil {
			return rec, fmt.Errorf("parsing created: %w", err)
		}
		rec.Created = t
	}

	return rec, nil
}

// scanRecords scans every remaining row.
func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	records := []domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating creatures: %w", err)
	}
	return records, nil
}
