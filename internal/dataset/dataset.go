// Package dataset holds the tabular value model shared by every pipeline
// stage. A Dataset preserves column order and row order end to end so that
// repeated runs over the same input produce identical output.
package dataset

// Row maps column name to cell value. A missing key reads as null.
type Row map[string]Value

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered sequence of rows sharing one schema. Stages treat
// datasets as immutable once handed downstream: each stage builds a new one
// instead of mutating its input.
type Dataset struct {
	Columns []string
	Rows    []Row
}

func New(columns ...string) *Dataset {
	return &Dataset{Columns: columns}
}

func (d *Dataset) Len() int {
	return len(d.Rows)
}

func (d *Dataset) Append(r Row) {
	d.Rows = append(d.Rows, r)
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Missing reports which of the required columns the schema lacks. Optional
// derivations and analytic tables declare their inputs and check them here
// before running, instead of probing rows ad hoc.
func (d *Dataset) Missing(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !d.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// AddColumn appends a column to the schema if not already declared.
func (d *Dataset) AddColumn(name string) {
	if !d.HasColumn(name) {
		d.Columns = append(d.Columns, name)
	}
}

func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Row, 0, len(d.Rows)),
	}
	for _, r := range d.Rows {
		out.Rows = append(out.Rows, r.Clone())
	}
	return out
}
