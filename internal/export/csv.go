// Package export writes the directory view out as delimited text and
// copies the store file to timestamped backups. Both consume the core
// and never write back into it.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kmizuno/tenken/internal/domain/company"
)

const timestampFormat = "20060102_150405"

// WriteCSV serializes the view rows as CSV with a fixed header.
func WriteCSV(w io.Writer, rows []company.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Company", "Last", "Next", "Status", "Notes"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Name, r.LastDone, r.NextDue, r.Status.Label(), r.Notes}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the view rows to a timestamped CSV file under dir
// and returns the file's path.
func ExportFile(dir string, rows []company.Row, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("inspection_export_%s.csv", now.Format(timestampFormat)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
