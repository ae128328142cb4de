package backup

import (
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	filePrefix = "folio-db-"
	fileSuffix = ".sqlite.gz"

	DefaultRetention = 30 * 24 * time.Hour
)

type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager writes compressed snapshots of the submissions database into a
// single directory and prunes the ones past retention.
type Manager struct {
	dir    string
	db     *sql.DB
	maxAge time.Duration
	now    func() time.Time
}

func NewManager(dir string, db *sql.DB) (*Manager, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Manager{dir: dir, db: db, maxAge: DefaultRetention, now: time.Now}, nil
}

// BackupDatabase snapshots the live database with VACUUM INTO, so a WAL
// database under write load still yields a consistent copy, then gzips it.
func (m *Manager) BackupDatabase(ctx context.Context) (*Info, error) {
	ts := m.now().UTC()
	name := filePrefix + ts.Format("20060102-150405.000") + fileSuffix
	outPath := filepath.Join(m.dir, name)

	snap, err := os.CreateTemp(m.dir, ".snapshot-*.sqlite")
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	snapPath := snap.Name()
	snap.Close()
	// VACUUM INTO refuses to overwrite an existing file.
	os.Remove(snapPath)
	defer os.Remove(snapPath)

	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", snapPath); err != nil {
		return nil, fmt.Errorf("snapshot db: %w", err)
	}

	if err := gzipFile(snapPath, outPath); err != nil {
		os.Remove(outPath)
		return nil, err
	}

	st, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}
	slog.Info("database backup written", "file", name, "size", FormatSize(st.Size()))
	return &Info{Name: name, Path: outPath, Size: st.Size(), CreatedAt: ts}, nil
}

func gzipFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0640)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	gz, err := gzip.NewWriterLevel(dst, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		return fmt.Errorf("copy db: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finish gzip: %w", err)
	}
	return dst.Sync()
}

// ListBackups returns database backups, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var backups []Info
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Name:      e.Name(),
			Path:      filepath.Join(m.dir, e.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// CleanOldBackups removes backups older than the retention period. Files
// that are not ours are left alone.
func (m *Manager) CleanOldBackups() int {
	cutoff := m.now().Add(-m.maxAge)
	backups, err := m.ListBackups()
	if err != nil {
		slog.Warn("could not list backups for cleanup", "error", err)
		return 0
	}

	removed := 0
	for _, b := range backups {
		if !b.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(b.Path); err != nil {
			slog.Warn("failed to remove old backup", "file", b.Name, "error", err)
			continue
		}
		removed++
	}
	return removed
}

// Run takes a backup and then prunes expired ones.
func (m *Manager) Run(ctx context.Context) (*Info, int, error) {
	info, err := m.BackupDatabase(ctx)
	if err != nil {
		return nil, 0, err
	}
	removed := m.CleanOldBackups()
	if removed > 0 {
		slog.Info("cleaned old backups", "removed", removed)
	}
	return info, removed, nil
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix)
}

// FormatSize returns a human-readable file size.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
