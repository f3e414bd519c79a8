package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"discset/internal/engine"
)

// ErrNotFound is returned when no run matches an identifier.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguous is returned when a run id prefix matches more than one run.
var ErrAmbiguous = errors.New("run id prefix is ambiguous")

// Store manages the run ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one ledger row.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Aborted    bool
	RomsDir    string
	Platforms  []string
	Candidates int
	Writes     int
	Outcomes   int
	Error      string
}

// Outcome is one stored outcome of a run.
type Outcome struct {
	Seq      int
	Kind     engine.Kind
	Platform string
	Set      string
	Path     string
	Detail   string
	Members  []string
}

// Open initializes or connects to the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps pragmas in effect for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record stores a finished run and its outcomes in one transaction. runErr
// is the error the run returned, if any.
func (s *Store) Record(ctx context.Context, report *engine.Report, runErr error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var errText any
	if runErr != nil {
		errText = runErr.Error()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, dry_run, aborted, roms_dir,
            platforms, candidates, writes, outcome_count, error
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		formatTime(report.StartedAt),
		formatTime(report.FinishedAt),
		boolToInt(report.DryRun),
		boolToInt(report.Aborted),
		report.RomsDir,
		strings.Join(report.Platforms, ","),
		report.Candidates,
		report.Writes(),
		len(report.Outcomes),
		errText,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, seq, kind, platform, set_name, path, detail, members_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range report.Outcomes {
		members, err := json.Marshal(o.Members)
		if err != nil {
			return fmt.Errorf("marshal members: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			report.RunID, i, string(o.Kind), o.Platform,
			nullableString(o.Set), nullableString(o.Path), nullableString(o.Detail), string(members),
		); err != nil {
			return fmt.Errorf("insert outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, dry_run, aborted, roms_dir,
    platforms, candidates, writes, outcome_count, error`

// List returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run whose id equals or uniquely starts with idOrPrefix,
// along with its outcomes in order.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (*Run, []Outcome, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		idOrPrefix, escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}
	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}

	var run Run
	switch {
	case len(matches) == 0:
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case len(matches) == 1:
		run = matches[0]
	case matches[0].ID == idOrPrefix:
		run = matches[0]
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrAmbiguous, idOrPrefix)
	}

	outcomes, err := s.outcomes(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return &run, outcomes, nil
}

func (s *Store) outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, platform, set_name, path, detail, members_json
         FROM outcomes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o                 Outcome
			kind              string
			set, path, detail sql.NullString
			members           sql.NullString
		)
		if err := rows.Scan(&o.Seq, &kind, &o.Platform, &set, &path, &detail, &members); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Kind = engine.Kind(kind)
		o.Set, o.Path, o.Detail = set.String, path.String, detail.String
		if members.Valid && members.String != "" {
			if err := json.Unmarshal([]byte(members.String), &o.Members); err != nil {
				return nil, fmt.Errorf("decode members: %w", err)
			}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
            SELECT id FROM runs ORDER BY started_at DESC, id LIMIT ?
        )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run               Run
		started, finished string
		dryRun, aborted   int
		platforms         string
		errText           sql.NullString
	)
	if err := row.Scan(&run.ID, &started, &finished, &dryRun, &aborted, &run.RomsDir,
		&platforms, &run.Candidates, &run.Writes, &run.Outcomes, &errText); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.DryRun = dryRun != 0
	run.Aborted = aborted != 0
	if platforms != "" {
		run.Platforms = strings.Split(platforms, ",")
	}
	run.Error = errText.String
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
