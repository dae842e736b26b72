// Package quality implements the data-quality gate that runs at every stage
// boundary. The gate only records findings: it never mutates the dataset and
// never fails the stage.
package quality

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
)

const DefaultMinRows = 1

type Gate struct {
	minRows int
	log     zerolog.Logger
}

func NewGate(minRows int, log zerolog.Logger) *Gate {
	if minRows < 1 {
		minRows = DefaultMinRows
	}
	return &Gate{
		minRows: minRows,
		log:     log.With().Str("component", "quality").Logger(),
	}
}

// Evaluate runs all checks against the dataset and returns the advisory
// report. Findings are also surfaced to the log sink with the table label.
func (g *Gate) Evaluate(ds *dataset.Dataset, table string) dto.QualityReport {
	log := g.log.With().Str("table", table).Logger()

	report := dto.QualityReport{
		Table:       table,
		RowCount:    ds.Len(),
		ColumnCount: len(ds.Columns),
	}

	if ds.Len() < g.minRows {
		msg := fmt.Sprintf("row count (%d) is below expected minimum (%d)", ds.Len(), g.minRows)
		report.Issues = append(report.Issues, msg)
		log.Error().Msg(msg)
	} else {
		log.Info().Int("rows", ds.Len()).Msg("row count check passed")
	}

	report.ColumnNulls = g.checkNulls(ds, &report, log)
	report.DuplicateRows = g.checkDuplicates(ds, &report, log)
	g.logTypeCensus(ds, log)

	report.Passed = len(report.Issues) == 0
	if report.Passed {
		log.Info().Msg("all quality checks passed")
	} else {
		log.Warn().Int("issues", len(report.Issues)).Msg("quality issues found")
	}

	return report
}

func (g *Gate) checkNulls(ds *dataset.Dataset, report *dto.QualityReport, log zerolog.Logger) []dto.ColumnNullStat {
	var stats []dto.ColumnNullStat

	for _, col := range ds.Columns {
		nulls := 0
		for _, row := range ds.Rows {
			if row[col].IsNull() {
				nulls++
			}
		}
		if nulls == 0 {
			continue
		}

		pct := float64(nulls) / float64(ds.Len()) * 100
		stats = append(stats, dto.ColumnNullStat{
			Column:     col,
			NullCount:  nulls,
			Percentage: pct,
		})
		report.NullCells += nulls

		msg := fmt.Sprintf("column %q has %d null values (%.2f%%)", col, nulls, pct)
		report.Issues = append(report.Issues, msg)
		log.Warn().Msg(msg)
	}

	return stats
}

// checkDuplicates counts rows identical across all columns.
func (g *Gate) checkDuplicates(ds *dataset.Dataset, report *dto.QualityReport, log zerolog.Logger) int {
	seen := make(map[string]struct{}, ds.Len())
	duplicates := 0

	var sb strings.Builder
	for _, row := range ds.Rows {
		sb.Reset()
		for _, col := range ds.Columns {
			sb.WriteString(row[col].String())
			sb.WriteByte(0x1f)
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}

	if duplicates > 0 {
		msg := fmt.Sprintf("found %d duplicate rows", duplicates)
		report.Issues = append(report.Issues, msg)
		log.Warn().Msg(msg)
	}

	return duplicates
}

func (g *Gate) logTypeCensus(ds *dataset.Dataset, log zerolog.Logger) {
	for _, col := range ds.Columns {
		counts := make(map[dataset.Kind]int)
		for _, row := range ds.Rows {
			counts[row[col].Kind()]++
		}

		dominant, best := dataset.KindNull, -1
		for kind, n := range counts {
			if kind == dataset.KindNull {
				continue
			}
			if n > best {
				dominant, best = kind, n
			}
		}
		log.Debug().Str("column", col).Str("kind", kindName(dominant)).Msg("type census")
	}
}

func kindName(k dataset.Kind) string {
	switch k {
	case dataset.KindString:
		return "string"
	case dataset.KindInt:
		return "int"
	case dataset.KindFloat:
		return "float"
	case dataset.KindBool:
		return "bool"
	case dataset.KindDate:
		return "date"
	case dataset.KindTimestamp:
		return "timestamp"
	default:
		return "null"
	}
}
