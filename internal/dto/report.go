package dto

// ColumnNullStat describes null density of one column.
type ColumnNullStat struct {
	Column     string  `json:"column"`
	NullCount  int     `json:"null_count"`
	Percentage float64 `json:"percentage"`
}

// QualityReport is the advisory outcome of the quality gate. Issues never
// block a stage from emitting its output; consumers of the gold layer are
// expected to review them.
type QualityReport struct {
	Table         string           `json:"table"`
	RowCount      int              `json:"row_count"`
	ColumnCount   int              `json:"column_count"`
	NullCells     int              `json:"null_count"`
	DuplicateRows int              `json:"duplicate_count"`
	ColumnNulls   []ColumnNullStat `json:"column_nulls,omitempty"`
	Issues        []string         `json:"issues,omitempty"`
	Passed        bool             `json:"passed"`
}

// TransformReport summarizes one transformation run.
type TransformReport struct {
	InputRows             int           `json:"input_rows"`
	OutputRows            int           `json:"output_rows"`
	DuplicatesRemoved     int           `json:"duplicates_removed"`
	DateParseFailures     int           `json:"date_parse_failures"`
	UnmappedGender        int           `json:"unmapped_gender"`
	UnmappedMaritalStatus int           `json:"unmapped_marital_status"`
	Quality               QualityReport `json:"quality"`
}
