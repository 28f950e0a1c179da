package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupDatabase copies the store file to a timestamped path under
// backupDir and returns that path. The source is only read; a failed
// backup never touches live state.
func BackupDatabase(dbPath, backupDir string, now time.Time) (string, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open database file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(backupDir, fmt.Sprintf("inspection_backup_%s.db", now.Format(timestampFormat)))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy database: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup file: %w", err)
	}
	return path, nil
}
