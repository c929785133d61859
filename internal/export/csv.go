package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCSV writes one <table>.csv per table into dir, each atomically.
func WriteCSV(dir string, t *Tables) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, 0, len(tables))
	for _, tbl := range tables {
		path := filepath.Join(dir, tbl.name+".csv")
		if err := writeCSVFile(path, tbl.columns, tbl.rows(t)); err != nil {
			return paths, fmt.Errorf("write %s: %w", tbl.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, header []string, rows [][]any) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(file)
	w := csv.NewWriter(buf)

	writeErr := func() error {
		if err := w.Write(header); err != nil {
			return err
		}
		record := make([]string, len(header))
		for _, row := range rows {
			for i, v := range row {
				record[i] = formatCell(v)
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		return buf.Flush()
	}()
	closeErr := file.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
