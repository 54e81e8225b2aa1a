package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/easyapply/internal/model"
)

// FileName is the database file name inside the data directory.
const FileName = "easyapply.db"

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02 15:04:05.000"

// HistoryDB provides SQLite-based storage for runs and applications.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ErrNotFound is returned by Open when the database does not exist and
// CreateIfNotExists is false.
var ErrNotFound = errors.New("database not found")

// Open opens or creates a HistoryDB in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs are single invocations of the apply command
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		search_url TEXT NOT NULL DEFAULT '',
		cards_found INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL DEFAULT 0,
		incomplete INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Applications are attempted job postings
	CREATE TABLE IF NOT EXISTS applications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		company TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		date_applied TEXT NOT NULL,
		runtime_seconds INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		stop_reason TEXT NOT NULL DEFAULT '',
		steps INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_apps_link ON applications(link);
	CREATE INDEX IF NOT EXISTS idx_apps_status ON applications(status);
	CREATE INDEX IF NOT EXISTS idx_apps_date ON applications(date_applied);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// StartRun inserts the run row.
func (hdb *HistoryDB) StartRun(ctx context.Context, run *model.RunSummary) error {
	query := `
	INSERT INTO runs (id, started_at, search_url)
	VALUES (?, ?, ?)
	`
	if _, err := hdb.db.ExecContext(ctx, query, run.RunID, formatTime(run.StartedAt), run.SearchURL); err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// FinishRun stores the end time, card count and status counts of run.
func (hdb *HistoryDB) FinishRun(ctx context.Context, run *model.RunSummary) error {
	query := `
	UPDATE runs SET
		finished_at = ?,
		cards_found = ?,
		success = ?,
		incomplete = ?,
		skipped = ?,
		failed = ?
	WHERE id = ?
	`
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := hdb.db.ExecContext(ctx, query,
		formatTime(finished),
		run.CardsFound,
		run.Count(model.StatusSuccess),
		run.Count(model.StatusIncomplete),
		run.Count(model.StatusSkipped),
		run.Count(model.StatusFailed),
		run.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to finish run: unknown run %q", run.RunID)
	}
	return nil
}

// SaveApplication inserts rec and sets its ID.
func (hdb *HistoryDB) SaveApplication(ctx context.Context, rec *model.ApplicationRecord) error {
	query := `
	INSERT INTO applications (run_id, title, company, link, date_applied, runtime_seconds, status, stop_reason, steps)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := hdb.db.ExecContext(ctx, query,
		rec.RunID,
		rec.Title,
		rec.Company,
		rec.Link,
		formatTime(rec.DateApplied),
		int64(rec.Runtime/time.Second),
		string(rec.Status),
		string(rec.StopReason),
		rec.Steps,
	)
	if err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read application id: %w", err)
	}
	rec.ID = id
	return nil
}

// HasApplied reports whether a successful application to link exists.
func (hdb *HistoryDB) HasApplied(ctx context.Context, link string) (bool, error) {
	if link == "" {
		return false, nil
	}
	query := `
	SELECT COUNT(*) FROM applications
	WHERE link = ? AND status = ?
	`
	var count int
	if err := hdb.db.QueryRowContext(ctx, query, link, string(model.StatusSuccess)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return count > 0, nil
}

// Filter narrows ListApplications.
type Filter struct {
	// Status keeps only applications with this status when set.
	Status model.Status

	// RunID keeps only applications of one run when set.
	RunID string

	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// ListApplications returns applications, newest first.
func (hdb *HistoryDB) ListApplications(ctx context.Context, f Filter) ([]model.ApplicationRecord, error) {
	query := `
	SELECT id, run_id, title, company, link, date_applied, runtime_seconds, status, stop_reason, steps
	FROM applications
	WHERE 1=1
	`
	args := make([]any, 0)

	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, f.RunID)
	}
	query += " ORDER BY date_applied DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var results []model.ApplicationRecord
	for rows.Next() {
		var (
			rec            model.ApplicationRecord
			date           string
			runtime        int64
			status, reason string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Title,
			&rec.Company,
			&rec.Link,
			&date,
			&runtime,
			&status,
			&reason,
			&rec.Steps,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		rec.DateApplied = parseTimestamp(date)
		rec.Runtime = time.Duration(runtime) * time.Second
		rec.Status = model.Status(status)
		rec.StopReason = model.StopReason(reason)
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Stats summarizes the whole history.
type Stats struct {
	// Total is the number of stored applications.
	Total int `json:"total"`

	// ByStatus counts applications per status.
	ByStatus map[model.Status]int `json:"by_status"`

	// Runs is the number of recorded runs.
	Runs int `json:"runs"`

	// AverageRuntime is the mean runtime of submitted applications.
	AverageRuntime time.Duration `json:"average_runtime"`

	// LastApplied is the newest application date, zero when empty.
	LastApplied time.Time `json:"last_applied,omitzero"`
}

// Stats returns counts over all runs.
func (hdb *HistoryDB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByStatus: make(map[model.Status]int)}

	rows, err := hdb.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[model.Status(status)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := hdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.Runs); err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	var avg sql.NullFloat64
	var last sql.NullString
	query := `
	SELECT
		(SELECT AVG(runtime_seconds) FROM applications WHERE status = ?),
		(SELECT MAX(date_applied) FROM applications)
	`
	if err := hdb.db.QueryRowContext(ctx, query, string(model.StatusSuccess)).Scan(&avg, &last); err != nil {
		return nil, fmt.Errorf("failed to summarize applications: %w", err)
	}
	if avg.Valid {
		stats.AverageRuntime = time.Duration(avg.Float64 * float64(time.Second)).Round(time.Second)
	}
	if last.Valid {
		stats.LastApplied = parseTimestamp(last.String)
	}
	return stats, nil
}

// RunRecord is a stored run.
type RunRecord struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	SearchURL  string    `json:"search_url"`
	CardsFound int       `json:"cards_found"`
	Success    int       `json:"success"`
	Incomplete int       `json:"incomplete"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// ListRuns returns runs, newest first. Zero limit means no limit.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, search_url, cards_found, success, incomplete, skipped, failed
	FROM runs
	ORDER BY started_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var r RunRecord
		var started string
		var finished sql.NullString
		if err := rows.Scan(
			&r.ID,
			&started,
			&finished,
			&r.SearchURL,
			&r.CardsFound,
			&r.Success,
			&r.Incomplete,
			&r.Skipped,
			&r.Failed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = parseTimestamp(started)
		if finished.Valid {
			r.FinishedAt = parseTimestamp(finished.String)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// formatTime stores t in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp parses a stored UTC timestamp into local time. It returns
// the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.Local()
		}
	}
	return time.Time{}
}
