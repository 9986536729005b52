package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/reez/ackamoto/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Limiting to a single
	// connection serializes all DB access through Go's connection pool.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Set busy timeout so concurrent writes wait instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewRunID generates a new ULID string for run bookkeeping.
func NewRunID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Raw fetched data ---

func (s *SQLiteStore) UpsertPullRequests(ctx context.Context, repo string, prs []models.PRMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, pr := range prs {
		_, err := tx.ExecContext(ctx, `INSERT INTO pull_requests
			(repo, number, title, url, author, state, updated_at, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(repo, number) DO UPDATE SET
				title = excluded.title,
				url = excluded.url,
				author = excluded.author,
				state = excluded.state,
				updated_at = excluded.updated_at,
				fetched_at = excluded.fetched_at`,
			repo, pr.Number, pr.Title, pr.URL, pr.Author, string(pr.State),
			pr.UpdatedAt.UTC().Format(time.RFC3339), now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("upsert PR %d: %w", pr.Number, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListPullRequests(ctx context.Context, repo string) ([]models.PRMeta, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT number, title, url, author, state, updated_at
		FROM pull_requests WHERE repo = ? ORDER BY number DESC`, repo)
	if err != nil {
		return nil, fmt.Errorf("list PRs: %w", err)
	}
	defer rows.Close()

	var prs []models.PRMeta
	for rows.Next() {
		var pr models.PRMeta
		var state, updatedAt string
		if err := rows.Scan(&pr.Number, &pr.Title, &pr.URL, &pr.Author, &state, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan PR: %w", err)
		}
		pr.State = models.PRState(state)
		pr.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

func (s *SQLiteStore) UpsertComments(ctx context.Context, repo string, comments []models.RawComment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, c := range comments {
		_, err := tx.ExecContext(ctx, `INSERT INTO comments
			(repo, id, pr_number, author, author_url, body, url, created_at, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(repo, id) DO UPDATE SET
				pr_number = excluded.pr_number,
				author = excluded.author,
				author_url = excluded.author_url,
				body = excluded.body,
				url = excluded.url,
				created_at = excluded.created_at,
				fetched_at = excluded.fetched_at`,
			repo, c.ID, c.PRNumber, c.Author, c.AuthorURL, c.Body, c.URL,
			c.CreatedAt.UTC().Format(time.RFC3339), now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("upsert comment %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListComments(ctx context.Context, repo string, prNumber int) ([]models.RawComment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, pr_number, author, author_url, body, url, created_at
		FROM comments WHERE repo = ? AND pr_number = ? ORDER BY created_at, id`, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.RawComment
	for rows.Next() {
		var c models.RawComment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.PRNumber, &c.Author, &c.AuthorURL, &c.Body, &c.URL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// --- Run bookkeeping ---

func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(id, repo, mode, pr_count, comment_count, verdict_count, warning_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Repo, run.Mode, run.PRCount, run.CommentCount, run.VerdictCount,
		run.WarningCount, run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, repo, mode, pr_count, comment_count,
		verdict_count, warning_count, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Repo, &r.Mode, &r.PRCount, &r.CommentCount,
			&r.VerdictCount, &r.WarningCount, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// --- Maintenance ---

func (s *SQLiteStore) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pull_requests").Scan(&stats.PullRequests); err != nil {
		return nil, fmt.Errorf("count PRs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&stats.Comments); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&stats.Runs); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	var last sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(fetched_at) FROM comments").Scan(&last); err != nil {
		return nil, fmt.Errorf("last fetch: %w", err)
	}
	if last.Valid {
		stats.LastFetched, _ = time.Parse(time.RFC3339, last.String)
	}
	return stats, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	for _, table := range []string{"comments", "pull_requests", "runs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
