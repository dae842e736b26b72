// Package extract pulls source entities out of the warehouse into the bronze
// layer. An extractor returns either a complete dataset or a single error;
// partial row-level failure is not modeled.
package extract

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
)

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func strVal(p *string) dataset.Value {
	if p == nil {
		return dataset.Null()
	}
	return dataset.String(*p)
}

func intVal(p *int64) dataset.Value {
	if p == nil {
		return dataset.Null()
	}
	return dataset.Int(*p)
}

func floatVal(p *float64) dataset.Value {
	if p == nil {
		return dataset.Null()
	}
	return dataset.Float(*p)
}

func boolVal(p *bool) dataset.Value {
	if p == nil {
		return dataset.Null()
	}
	return dataset.Bool(*p)
}

func dateVal(p *time.Time) dataset.Value {
	if p == nil {
		return dataset.Null()
	}
	return dataset.Date(*p)
}
