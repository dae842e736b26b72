// Package load implements the silver→gold aggregation engine. Each analytic
// table is independent: a missing optional input column skips that table with
// a warning while the others still materialize.
package load

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/quality"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/storage"
)

const silverEntity = "employees"

// SkippedTable reports an analytic table that could not be computed because
// the conformed dataset lacks its declared input columns.
type SkippedTable struct {
	Table   string
	Missing []string
}

func (s SkippedTable) String() string {
	return fmt.Sprintf("%s skipped: missing columns %s", s.Table, strings.Join(s.Missing, ", "))
}

type Loader struct {
	silver *storage.Layer
	gold   *storage.Layer
	gate   *quality.Gate
	log    zerolog.Logger
}

func NewLoader(silver, gold *storage.Layer, gate *quality.Gate, log zerolog.Logger) *Loader {
	return &Loader{
		silver: silver,
		gold:   gold,
		gate:   gate,
		log:    log.With().Str("component", "EmployeeAnalyticsLoader").Logger(),
	}
}

// Aggregate computes every analytic table the conformed dataset can support.
// The input is read-only; tables never see each other's output.
func (l *Loader) Aggregate(ds *dataset.Dataset) (map[string]*dataset.Dataset, []SkippedTable) {
	results := make(map[string]*dataset.Dataset)
	var skipped []SkippedTable

	for _, table := range analyticTables() {
		if missing := ds.Missing(table.requires...); len(missing) > 0 {
			skipped = append(skipped, SkippedTable{Table: table.name, Missing: missing})
			l.log.Warn().
				Str("table", table.name).
				Strs("missing", missing).
				Msg("analytic table skipped")
			continue
		}
		results[table.name] = table.build(ds)
	}

	return results, skipped
}

// Run loads the silver materialization, gates it, computes the analytic
// tables concurrently and persists each to the gold layer. Tables share only
// the read-only conformed dataset, so the fan-out is an optimization with no
// effect on output.
func (l *Loader) Run(ctx context.Context, now time.Time) (map[string]string, []SkippedTable, error) {
	ds, err := l.silver.LoadLatest(silverEntity)
	if err != nil {
		return nil, nil, fmt.Errorf("load silver: %w", err)
	}

	l.gate.Evaluate(ds, "employees_silver")

	var (
		mu      sync.Mutex
		saved   = make(map[string]string)
		skipped []SkippedTable
	)

	group, _ := errgroup.WithContext(ctx)
	for _, table := range analyticTables() {
		table := table
		group.Go(func() error {
			if missing := ds.Missing(table.requires...); len(missing) > 0 {
				l.log.Warn().
					Str("table", table.name).
					Strs("missing", missing).
					Msg("analytic table skipped")
				mu.Lock()
				skipped = append(skipped, SkippedTable{Table: table.name, Missing: missing})
				mu.Unlock()
				return nil
			}

			result := table.build(ds)
			path, err := l.gold.Save(table.name, result, now)
			if err != nil {
				return fmt.Errorf("save %s: %w", table.name, err)
			}

			l.log.Info().
				Str("table", table.name).
				Int("rows", result.Len()).
				Msg("analytic table created")

			mu.Lock()
			saved[table.name] = path
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, skipped, err
	}

	l.log.Info().Int("tables", len(saved)).Msg("load to gold layer completed")
	return saved, skipped, nil
}
