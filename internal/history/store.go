package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"jobdeck/internal/logging"
)

// ErrNotFound is returned when a record ID does not exist in the store.
var ErrNotFound = errors.New("history record not found")

// timeLayout is how searched_at is stored; RFC3339Nano survives the
// round-trip through SQLite's TEXT affinity without losing precision.
const timeLayout = time.RFC3339Nano

// Store persists search-history records in a local SQLite database.
// A single connection is shared; the mutex serializes multi-statement
// operations on top of the driver's own locking.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewStore opens (or creates) the history database at the given path.
func NewStore(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryHistory, "NewStore")
	defer timer.Stop()

	logging.History("Opening history store at %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.HistoryDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.HistoryDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.HistoryDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		location TEXT,
		job_type TEXT,
		salary_range TEXT,
		posted_within TEXT,
		result_count INTEGER DEFAULT 0,
		searched_at TEXT NOT NULL,
		status TEXT NOT NULL,
		tags TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_search_history_searched_at ON search_history(searched_at);
	CREATE INDEX IF NOT EXISTS idx_search_history_status ON search_history(status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create search_history schema: %w", err)
	}
	return nil
}

// Add inserts a record, assigning an ID, timestamp, and in-progress
// status when they are zero. The stored record is returned.
func (s *Store) Add(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SearchedAt.IsZero() {
		rec.SearchedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusInProgress
	}
	if _, err := ParseStatus(string(rec.Status)); err != nil {
		return Record{}, err
	}

	tags, err := marshalTags(rec.Tags)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO search_history
		 (id, query, location, job_type, salary_range, posted_within, result_count, searched_at, status, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Location, rec.JobType, rec.SalaryRange, rec.PostedWithin,
		rec.ResultCount, rec.SearchedAt.Format(timeLayout), string(rec.Status), tags,
	)
	if err != nil {
		logging.HistoryWarn("Failed to insert record %s: %v", rec.ID, err)
		return Record{}, fmt.Errorf("failed to insert record: %w", err)
	}

	logging.HistoryDebug("Added record %s (query=%q)", rec.ID, rec.Query)
	return rec, nil
}

// List returns records newest-first. limit <= 0 means no limit.
func (s *Store) List(limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT disables it
	}

	rows, err := s.db.Query(
		`SELECT id, query, location, job_type, salary_range, posted_within, result_count, searched_at, status, tags
		 FROM search_history
		 ORDER BY searched_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns a single record by ID.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT id, query, location, job_type, salary_range, posted_within, result_count, searched_at, status, tags
		 FROM search_history
		 WHERE id = ?`,
		id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// SetStatus resolves a record's status and result count.
func (s *Store) SetStatus(id string, status Status, resultCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}

	res, err := s.db.Exec(
		`UPDATE search_history SET status = ?, result_count = ? WHERE id = ?`,
		string(status), resultCount, id,
	)
	if err != nil {
		logging.HistoryWarn("Failed to update record %s: %v", id, err)
		return fmt.Errorf("failed to update record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	logging.HistoryDebug("Record %s -> %s (%d results)", id, status, resultCount)
	return nil
}

// Touch refreshes a record's timestamp, moving it to the top of the list.
func (s *Store) Touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE search_history SET searched_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM search_history WHERE id = ?`, id)
	if err != nil {
		logging.HistoryWarn("Failed to delete record %s: %v", id, err)
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	logging.HistoryDebug("Deleted record %s", id)
	return nil
}

// Prune keeps only the newest keep records. keep <= 0 is a no-op.
func (s *Store) Prune(keep int) error {
	if keep <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`DELETE FROM search_history
		 WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY searched_at DESC LIMIT ?
		 )`,
		keep,
	)
	if err != nil {
		return fmt.Errorf("failed to prune records: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logging.HistoryDebug("Pruned %d records (keep=%d)", n, keep)
	}
	return nil
}

// Clear removes every record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logging.History("History cleared")
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM search_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec      Record
		status   string
		searched string
		tagsJSON sql.NullString
	)
	err := sc.Scan(
		&rec.ID, &rec.Query, &rec.Location, &rec.JobType, &rec.SalaryRange,
		&rec.PostedWithin, &rec.ResultCount, &searched, &status, &tagsJSON,
	)
	if err != nil {
		return Record{}, err
	}

	rec.SearchedAt, err = time.Parse(timeLayout, searched)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse searched_at %q: %w", searched, err)
	}
	rec.Status = Status(status)

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &rec.Tags); err != nil {
			return Record{}, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	return rec, nil
}

func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
