package ledger

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Status values stored per source file.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Entry is the ledger row for one source file.
type Entry struct {
	Source    string
	Size      int64
	ModTime   time.Time
	Status    string
	SRTPath   string
	FPS       float64
	Cues      int
	Error     string
	UpdatedAt string
}

// Ledger remembers which source files have been turned into subtitles so
// batch and watch runs can skip unchanged inputs.
type Ledger struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the ledger database at dbPath.
func Open(dbPath string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping ledger: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	l := &Ledger{conn: conn, logger: logger}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return l, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.conn.Close()
}

func (l *Ledger) migrate() error {
	migrations, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, m := range migrations {
		if m.IsDir() {
			continue
		}
		name := m.Name()
		if l.isMigrationApplied(name) {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := l.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err := l.conn.Exec("INSERT INTO _migrations (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		l.logger.Debug("applied ledger migration", "name", name)
	}
	return nil
}

func (l *Ledger) isMigrationApplied(name string) bool {
	var exists int
	err := l.conn.QueryRow("SELECT 1 FROM sqlite_master WHERE type='table' AND name='_migrations'").Scan(&exists)
	if err != nil {
		return false
	}
	var applied int
	err = l.conn.QueryRow("SELECT 1 FROM _migrations WHERE name = ?", name).Scan(&applied)
	return err == nil && applied == 1
}

// Lookup returns the entry for source, or nil when none exists.
func (l *Ledger) Lookup(ctx context.Context, source string) (*Entry, error) {
	var (
		e       Entry
		modUnix int64
	)
	err := l.conn.QueryRowContext(ctx,
		`SELECT source, size, mod_time, status, srt_path, fps, cues, error, updated_at
		 FROM processed WHERE source = ?`, source).
		Scan(&e.Source, &e.Size, &modUnix, &e.Status, &e.SRTPath, &e.FPS, &e.Cues, &e.Error, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", source, err)
	}
	e.ModTime = time.Unix(0, modUnix)
	return &e, nil
}

// Unchanged reports whether source already succeeded with the same size
// and modification time as info.
func (l *Ledger) Unchanged(ctx context.Context, source string, info os.FileInfo) (bool, error) {
	e, err := l.Lookup(ctx, source)
	if err != nil || e == nil {
		return false, err
	}
	return e.Status == StatusSucceeded &&
		e.Size == info.Size() &&
		e.ModTime.Equal(time.Unix(0, info.ModTime().UnixNano())), nil
}

// RecordSuccess stores a successful run for source.
func (l *Ledger) RecordSuccess(ctx context.Context, source string, info os.FileInfo, srtPath string, fps float64, cues int) error {
	return l.upsert(ctx, Entry{
		Source:  source,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Status:  StatusSucceeded,
		SRTPath: srtPath,
		FPS:     fps,
		Cues:    cues,
	})
}

// RecordFailure stores a failed run for source.
func (l *Ledger) RecordFailure(ctx context.Context, source string, info os.FileInfo, runErr error) error {
	e := Entry{Source: source, Status: StatusFailed, ModTime: time.Unix(0, 0)}
	if info != nil {
		e.Size = info.Size()
		e.ModTime = info.ModTime()
	}
	if runErr != nil {
		e.Error = runErr.Error()
	}
	return l.upsert(ctx, e)
}

func (l *Ledger) upsert(ctx context.Context, e Entry) error {
	_, err := l.conn.ExecContext(ctx,
		`INSERT INTO processed (source, size, mod_time, status, srt_path, fps, cues, error, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(source) DO UPDATE SET
		   size = excluded.size,
		   mod_time = excluded.mod_time,
		   status = excluded.status,
		   srt_path = excluded.srt_path,
		   fps = excluded.fps,
		   cues = excluded.cues,
		   error = excluded.error,
		   updated_at = excluded.updated_at`,
		e.Source, e.Size, e.ModTime.UnixNano(), e.Status, e.SRTPath, e.FPS, e.Cues, e.Error)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Source, err)
	}
	return nil
}
