package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"cyberpulse/pkg/contracts/domain"
)

// ErrDatasetFileMissing marks a required survey file that is absent at
// startup. This is fatal; the server refuses to start without all four.
var ErrDatasetFileMissing = errors.New("dataset file missing")

// columnCount is the fixed six-column schema of every survey file:
// incident_type, domain, share_2021, share_2023, moe_2021, moe_2023.
// Column identity is positional; header text in the files is ignored.
const columnCount = 6

// Loader reads the semicolon-delimited, Windows-1252 encoded survey files
// into in-memory tables.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "dataset_loader"))}
}

// LoadAll reads every survey file named in paths and builds the immutable
// Store. The four files load concurrently; the result is identical to a
// sequential load because tables are keyed, not appended.
func (l *Loader) LoadAll(ctx context.Context, paths map[domain.DatasetKey]string) (*Store, error) {
	tables := make(map[domain.DatasetKey]domain.Table, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, key := range domain.AllDatasetKeys() {
		path, ok := paths[key]
		if !ok {
			return nil, fmt.Errorf("no path configured for dataset %q", key)
		}
		g.Go(func() error {
			table, err := l.loadFile(ctx, key, path)
			if err != nil {
				return err
			}
			mu.Lock()
			tables[key] = table
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := NewStore(tables)
	l.logger.InfoContext(ctx, "survey datasets loaded",
		slog.Int("dataset_count", len(tables)),
		slog.Int("total_rows", len(store.Concat())))
	return store, nil
}

// loadFile reads one survey file into a table.
func (l *Loader) loadFile(ctx context.Context, key domain.DatasetKey, path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrDatasetFileMissing, path, key)
		}
		return nil, fmt.Errorf("open dataset %s: %w", key, err)
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", key, err)
	}

	l.logger.DebugContext(ctx, "dataset file parsed",
		slog.String("dataset", string(key)),
		slog.String("path", path),
		slog.Int("rows", len(table)))
	return table, nil
}

// ParseTable decodes one survey file from r. The stream is Windows-1252;
// the first physical line is a human-readable title and is skipped, the
// second is a header whose text is overridden by the positional schema.
func ParseTable(r io.Reader) (domain.Table, error) {
	decoded := transform.NewReader(r, charmap.Windows1252.NewDecoder())
	cr := csv.NewReader(decoded)
	cr.Comma = ';'
	// Source rows occasionally carry trailing empty cells.
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) <= 2 {
		return domain.Table{}, nil
	}

	// rows[0] is the metadata/title line, rows[1] the header.
	table := make(domain.Table, 0, len(rows)-2)
	for _, row := range rows[2:] {
		table = append(table, recordFromRow(row))
	}
	return table, nil
}

// recordFromRow maps one physical row onto the fixed schema. Short rows
// yield empty/missing trailing fields; extra cells are ignored.
func recordFromRow(row []string) domain.IncidentRecord {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return domain.IncidentRecord{
		IncidentType: strings.TrimSpace(cell(0)),
		Domain:       strings.TrimSpace(cell(1)),
		Share2021:    coerceNumeric(cell(2)),
		Share2023:    coerceNumeric(cell(3)),
		MOE2021:      coerceNumeric(cell(4)),
		MOE2023:      coerceNumeric(cell(5)),
	}
}

// coerceNumeric parses a numeric cell, returning nil on any failure.
// Coercion is total and silent: unparseable values become missing, never
// an error.
func coerceNumeric(cell string) *float64 {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &v
}
