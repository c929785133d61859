package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"catalogid/internal/logging"
)

// Write renders the tables in each requested format under dir and returns
// the written paths.
func Write(ctx context.Context, dir string, formats []string, t *Tables, logger *slog.Logger) ([]string, error) {
	logger = logging.NewComponentLogger(logger, "export")
	var written []string
	for _, format := range formats {
		switch format {
		case "csv":
			paths, err := WriteCSV(dir, t)
			if err != nil {
				return written, err
			}
			written = append(written, paths...)
		case "sqlite":
			path := filepath.Join(dir, DatabaseName)
			if err := WriteSQLite(ctx, path, t); err != nil {
				return written, err
			}
			written = append(written, path)
		default:
			return written, fmt.Errorf("unsupported output format %q", format)
		}
		logger.Info("wrote output tables",
			logging.String("format", format),
			logging.String("dir", dir),
			logging.Int("courses", len(t.Courses)),
			logging.Int("listings", len(t.Listings)))
	}
	return written, nil
}
