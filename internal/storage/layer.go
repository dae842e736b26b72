// Package storage persists datasets as CSV files, one directory per staging
// layer. Every materialization is written twice: a timestamped immutable
// audit copy and an overwritten "latest" pointer that downstream stages read.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
)

const fileTimestampLayout = "20060102_150405"

type Layer struct {
	dir string
	log zerolog.Logger
}

func NewLayer(dir string, log zerolog.Logger) (*Layer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}
	return &Layer{
		dir: dir,
		log: log.With().Str("component", "storage").Str("dir", dir).Logger(),
	}, nil
}

func (l *Layer) Dir() string {
	return l.dir
}

// Save writes the dataset as {entity}_{timestamp}.csv plus {entity}_latest.csv
// and returns the timestamped path. Column order in the file matches the
// dataset schema exactly.
func (l *Layer) Save(entity string, ds *dataset.Dataset, now time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s.csv", entity, now.UTC().Format(fileTimestampLayout))
	stamped := filepath.Join(l.dir, name)
	latest := l.latestPath(entity)

	if err := writeCSV(stamped, ds); err != nil {
		return "", fmt.Errorf("write %s: %w", stamped, err)
	}
	if err := writeCSV(latest, ds); err != nil {
		return "", fmt.Errorf("write %s: %w", latest, err)
	}

	l.log.Info().
		Str("entity", entity).
		Int("rows", ds.Len()).
		Str("file", stamped).
		Msg("dataset saved")

	return stamped, nil
}

// LoadLatest reads the latest pointer back as an all-string dataset. Cell
// typing is the consumer's concern: the transformation engine re-coerces the
// columns it declares. A missing pointer is a fatal upstream error.
func (l *Layer) LoadLatest(entity string) (*dataset.Dataset, error) {
	path := l.latestPath(entity)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dto.ErrUpstreamMissing, path)
		}
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	ds, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	l.log.Info().
		Str("entity", entity).
		Int("rows", ds.Len()).
		Msg("dataset loaded")

	return ds, nil
}

func (l *Layer) latestPath(entity string) string {
	return filepath.Join(l.dir, entity+"_latest.csv")
}

func writeCSV(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			record[i] = row[col].String()
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}

func readCSV(r io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	ds := dataset.New(header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		// Pad or truncate rows with mismatched column counts.
		if len(record) < len(header) {
			padded := make([]string, len(header))
			copy(padded, record)
			record = padded
		} else if len(record) > len(header) {
			record = record[:len(header)]
		}

		row := make(dataset.Row, len(header))
		for i, col := range header {
			if record[i] == "" {
				row[col] = dataset.Null()
			} else {
				row[col] = dataset.String(record[i])
			}
		}
		ds.Append(row)
	}

	return ds, nil
}
