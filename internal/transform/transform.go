// Package transform implements the bronze→silver transformation engine: a
// fixed ordered rule pipeline that cleans, standardizes, derives and
// deduplicates employee records. Every rule is total — unparseable values
// degrade to a sentinel and never abort the run. Given the same raw dataset
// and the same reference clock the output is byte-identical across runs.
package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/quality"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/storage"
)

const (
	bronzeEntity = "dimemployee"
	silverEntity = "employees"

	titleDefault = "Not Specified"
)

var (
	textColumns = []string{
		dto.ColFirstName, dto.ColLastName, dto.ColMiddleName, dto.ColTitle,
		dto.ColDepartmentName, dto.ColEmergencyContactName,
	}
	dateColumns = []string{
		dto.ColHireDate, dto.ColBirthDate, dto.ColStartDate, dto.ColEndDate,
	}
	boolColumns = []string{
		dto.ColSalariedFlag, dto.ColCurrentFlag, dto.ColSalesPersonFlag,
	}
	numericColumns = []string{
		dto.ColBaseRate, dto.ColVacationHours, dto.ColSickLeaveHours,
	}
	criticalFields = []string{
		dto.ColEmailAddress, dto.ColPhone, dto.ColDepartmentName,
	}

	genderMap  = map[string]string{"M": "Male", "F": "Female"}
	maritalMap = map[string]string{"M": "Married", "S": "Single"}
)

// Options control the optional post-filter step.
type Options struct {
	FilterActive bool
}

type Transformer struct {
	bronze *storage.Layer
	silver *storage.Layer
	gate   *quality.Gate
	log    zerolog.Logger
}

func NewTransformer(bronze, silver *storage.Layer, gate *quality.Gate, log zerolog.Logger) *Transformer {
	return &Transformer{
		bronze: bronze,
		silver: silver,
		gate:   gate,
		log:    log.With().Str("component", "EmployeeTransformer").Logger(),
	}
}

// Transform applies the rule pipeline to one raw dataset. now is the run's
// reference clock; it is the only time source used for derived fields. The
// input dataset is never mutated.
func (t *Transformer) Transform(raw *dataset.Dataset, now time.Time) (*dataset.Dataset, dto.TransformReport, error) {
	if !raw.HasColumn(dto.ColEmployeeKey) {
		return nil, dto.TransformReport{}, fmt.Errorf("%w: %s", dto.ErrKeyUnparseable, dto.ColEmployeeKey)
	}

	report := dto.TransformReport{InputRows: raw.Len()}

	out := dataset.New(conformedColumns(raw)...)
	for _, src := range raw.Rows {
		out.Append(t.transformRow(src, raw, now, &report))
	}

	deduped := dedupeByKey(out, &report)
	t.log.Info().
		Int("input_rows", report.InputRows).
		Int("duplicates_removed", report.DuplicatesRemoved).
		Int("date_parse_failures", report.DateParseFailures).
		Int("unmapped_gender", report.UnmappedGender).
		Int("unmapped_marital_status", report.UnmappedMaritalStatus).
		Msg("data cleaning completed")

	report.OutputRows = deduped.Len()
	return deduped, report, nil
}

// conformedColumns drops extraction metadata and appends the derived columns
// in derivation order.
func conformedColumns(raw *dataset.Dataset) []string {
	cols := make([]string, 0, len(raw.Columns)+6)
	for _, c := range raw.Columns {
		if c == dto.ColExtractionTimestamp {
			continue
		}
		cols = append(cols, c)
	}
	return append(cols,
		dto.ColFullName,
		dto.ColAge,
		dto.ColYearsOfService,
		dto.ColGenderUnmapped,
		dto.ColMaritalStatusUnmapped,
		dto.ColDataQualityScore,
	)
}

func (t *Transformer) transformRow(src dataset.Row, raw *dataset.Dataset, now time.Time, report *dto.TransformReport) dataset.Row {
	row := make(dataset.Row, len(raw.Columns)+6)
	for _, c := range raw.Columns {
		if c == dto.ColExtractionTimestamp {
			continue
		}
		row[c] = src[c]
	}

	// Null-fill before trimming so FullName sees a concrete middle name.
	if raw.HasColumn(dto.ColMiddleName) && row[dto.ColMiddleName].IsNull() {
		row[dto.ColMiddleName] = dataset.String("")
	}
	if raw.HasColumn(dto.ColTitle) && row[dto.ColTitle].IsNull() {
		row[dto.ColTitle] = dataset.String(titleDefault)
	}

	for _, c := range textColumns {
		if !raw.HasColumn(c) {
			continue
		}
		if v := row[c]; v.Kind() == dataset.KindString {
			row[c] = dataset.String(strings.TrimSpace(v.Str()))
		}
	}

	row[dto.ColFullName] = dataset.String(fullName(row))

	for _, c := range dateColumns {
		if !raw.HasColumn(c) {
			continue
		}
		v := row[c]
		if v.IsNull() {
			continue
		}
		if d, ok := dataset.ParseDate(v); ok {
			row[c] = dataset.Date(d)
		} else {
			row[c] = dataset.Null()
			report.DateParseFailures++
		}
	}

	row[dto.ColAge] = derivedYears(row[dto.ColBirthDate], now)
	row[dto.ColYearsOfService] = derivedYears(row[dto.ColHireDate], now)

	for _, c := range boolColumns {
		if raw.HasColumn(c) {
			row[c] = dataset.Bool(dataset.ParseBool(row[c]))
		}
	}

	for _, c := range numericColumns {
		if raw.HasColumn(c) {
			row[c] = dataset.Float(dataset.ParseFloat(row[c]))
		}
	}

	unmapped := 0
	row[dto.ColGender], unmapped = mapCategorical(row[dto.ColGender], genderMap)
	row[dto.ColGenderUnmapped] = dataset.Bool(unmapped == 1)
	report.UnmappedGender += unmapped

	row[dto.ColMaritalStatus], unmapped = mapCategorical(row[dto.ColMaritalStatus], maritalMap)
	row[dto.ColMaritalStatusUnmapped] = dataset.Bool(unmapped == 1)
	report.UnmappedMaritalStatus += unmapped

	score := int64(100)
	for _, c := range criticalFields {
		if raw.HasColumn(c) && row[c].IsNull() {
			score -= 10
		}
	}
	row[dto.ColDataQualityScore] = dataset.Int(score)

	return row
}

// fullName joins first, middle and last name with single spaces; an empty
// middle name is omitted.
func fullName(row dataset.Row) string {
	parts := make([]string, 0, 3)
	for _, c := range []string{dto.ColFirstName, dto.ColMiddleName, dto.ColLastName} {
		if s := row[c].Str(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func derivedYears(v dataset.Value, now time.Time) dataset.Value {
	d, ok := v.Time()
	if !ok {
		return dataset.Null()
	}
	return dataset.Int(yearsSince(d, now))
}

// mapCategorical maps a coded value through the lookup table. Unmapped codes
// are preserved verbatim and flagged instead of being discarded; empty and
// null cells stay null.
func mapCategorical(v dataset.Value, table map[string]string) (dataset.Value, int) {
	if v.IsNull() {
		return dataset.Null(), 0
	}
	code := strings.TrimSpace(v.Str())
	if code == "" {
		return dataset.Null(), 0
	}
	if mapped, ok := table[code]; ok {
		return dataset.String(mapped), 0
	}
	return dataset.String(code), 1
}

// dedupeByKey keeps the last occurrence per EmployeeKey, preserving each
// kept row's original position.
func dedupeByKey(ds *dataset.Dataset, report *dto.TransformReport) *dataset.Dataset {
	last := make(map[string]int, ds.Len())
	for i, row := range ds.Rows {
		last[row[dto.ColEmployeeKey].String()] = i
	}

	out := dataset.New(ds.Columns...)
	for i, row := range ds.Rows {
		if last[row[dto.ColEmployeeKey].String()] == i {
			out.Append(row)
		} else {
			report.DuplicatesRemoved++
		}
	}
	return out
}

// FilterActive retains rows where CurrentFlag is true. When the column is
// absent the filter is a no-op, not an error.
func (t *Transformer) FilterActive(ds *dataset.Dataset) *dataset.Dataset {
	if !ds.HasColumn(dto.ColCurrentFlag) {
		t.log.Warn().Msg("CurrentFlag column not found, skipping active filter")
		return ds
	}

	out := dataset.New(ds.Columns...)
	for _, row := range ds.Rows {
		if b, ok := row[dto.ColCurrentFlag].Bool(); ok && b {
			out.Append(row)
		}
	}
	t.log.Info().
		Int("active", out.Len()).
		Int("total", ds.Len()).
		Msg("filtered to active employees")
	return out
}

// Run loads the bronze materialization, transforms it, gates the result and
// persists the silver layer. Quality findings are advisory: the stage emits
// its output regardless.
func (t *Transformer) Run(now time.Time, opts Options) (*dataset.Dataset, string, dto.TransformReport, error) {
	raw, err := t.bronze.LoadLatest(bronzeEntity)
	if err != nil {
		return nil, "", dto.TransformReport{}, fmt.Errorf("load bronze: %w", err)
	}

	ds, report, err := t.Transform(raw, now)
	if err != nil {
		return nil, "", report, fmt.Errorf("transform employees: %w", err)
	}

	if opts.FilterActive {
		ds = t.FilterActive(ds)
		report.OutputRows = ds.Len()
	}

	report.Quality = t.gate.Evaluate(ds, silverEntity)

	ds.AddColumn(dto.ColTransformationTimestamp)
	for _, row := range ds.Rows {
		row[dto.ColTransformationTimestamp] = dataset.Timestamp(now)
	}

	path, err := t.silver.Save(silverEntity, ds, now)
	if err != nil {
		return nil, "", report, fmt.Errorf("save silver: %w", err)
	}

	t.log.Info().
		Int("input_rows", report.InputRows).
		Int("output_rows", ds.Len()).
		Str("file", path).
		Msg("transformation completed")

	return ds, path, report, nil
}
