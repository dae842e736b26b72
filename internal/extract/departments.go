package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/quality"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/storage"
)

const departmentQuery = `
select DepartmentGroupKey,
       ParentDepartmentGroupKey,
       DepartmentGroupName
from dbo.DimDepartmentGroup
`

// DepartmentExtractor reads dbo.DimDepartmentGroup into the bronze layer.
// The parent-key self-reference forms a tree; it is persisted as-is and not
// resolved here.
type DepartmentExtractor struct {
	pool   PgxPoolIface
	bronze *storage.Layer
	gate   *quality.Gate
	log    zerolog.Logger
}

func NewDepartmentExtractor(pool PgxPoolIface, bronze *storage.Layer, gate *quality.Gate, log zerolog.Logger) *DepartmentExtractor {
	return &DepartmentExtractor{
		pool:   pool,
		bronze: bronze,
		gate:   gate,
		log:    log.With().Str("component", "DepartmentExtractor").Logger(),
	}
}

func (e *DepartmentExtractor) Entity() string { return "dimdepartmentgroup" }

func (e *DepartmentExtractor) Extract(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := e.pool.Query(ctx, departmentQuery)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	ds := dataset.New(dto.DepartmentSourceColumns...)

	for rows.Next() {
		var (
			groupKey  int64
			parentKey *int64
			groupName *string
		)

		if err := rows.Scan(&groupKey, &parentKey, &groupName); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		ds.Append(dataset.Row{
			dto.ColDepartmentGroupKey:       dataset.Int(groupKey),
			dto.ColParentDepartmentGroupKey: intVal(parentKey),
			dto.ColDepartmentGroupName:      strVal(groupName),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	e.log.Info().Int("rows", ds.Len()).Msg("departments extracted")
	return ds, nil
}

func (e *DepartmentExtractor) Run(ctx context.Context, now time.Time) (*dataset.Dataset, string, error) {
	ds, err := e.Extract(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("extract departments: %w", err)
	}

	e.gate.Evaluate(ds, "DimDepartmentGroup")

	ds.AddColumn(dto.ColExtractionTimestamp)
	for _, row := range ds.Rows {
		row[dto.ColExtractionTimestamp] = dataset.Timestamp(now)
	}

	path, err := e.bronze.Save(e.Entity(), ds, now)
	if err != nil {
		return nil, "", fmt.Errorf("save bronze: %w", err)
	}

	return ds, path, nil
}
