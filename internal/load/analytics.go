package load

import (
	"math"
	"sort"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
)

// analyticTable declares one gold table: its required input columns and the
// pure builder that computes it. Requirements are checked against the actual
// schema before the builder runs, so a missing optional column skips exactly
// one table.
type analyticTable struct {
	name     string
	requires []string
	build    func(ds *dataset.Dataset) *dataset.Dataset
}

func analyticTables() []analyticTable {
	return []analyticTable{
		{
			name: "department_summary",
			requires: []string{
				dto.ColDepartmentName, dto.ColEmployeeKey, dto.ColBaseRate,
				dto.ColYearsOfService, dto.ColAge, dto.ColVacationHours, dto.ColSickLeaveHours,
			},
			build: buildDepartmentSummary,
		},
		{
			name:     "gender_diversity",
			requires: []string{dto.ColDepartmentName, dto.ColGender, dto.ColEmployeeKey},
			build:    buildGenderDiversity,
		},
		{
			name:     "tenure_analysis",
			requires: []string{dto.ColDepartmentName, dto.ColYearsOfService, dto.ColEmployeeKey},
			build:    buildTenureAnalysis,
		},
		{
			name:     "hiring_trends",
			requires: []string{dto.ColHireDate, dto.ColDepartmentName, dto.ColEmployeeKey},
			build:    buildHiringTrends,
		},
	}
}

func buildDepartmentSummary(ds *dataset.Dataset) *dataset.Dataset {
	type agg struct {
		employees int
		baseRate  []float64
		years     []float64
		age       []float64
		vacation  []float64
		sick      []float64
	}

	groups := make(map[string]*agg)
	for _, row := range ds.Rows {
		dept, ok := groupName(row[dto.ColDepartmentName])
		if !ok {
			continue
		}
		g := groups[dept]
		if g == nil {
			g = &agg{}
			groups[dept] = g
		}
		if !row[dto.ColEmployeeKey].IsNull() {
			g.employees++
		}
		appendFloat(&g.baseRate, row[dto.ColBaseRate])
		appendFloat(&g.years, row[dto.ColYearsOfService])
		appendFloat(&g.age, row[dto.ColAge])
		appendFloat(&g.vacation, row[dto.ColVacationHours])
		appendFloat(&g.sick, row[dto.ColSickLeaveHours])
	}

	out := dataset.New(
		dto.ColDepartmentName,
		"total_employees",
		"avg_base_rate",
		"median_base_rate",
		"min_base_rate",
		"max_base_rate",
		"avg_years_of_service",
		"avg_age",
		"avg_vacation_hours",
		"avg_sick_leave_hours",
	)
	for _, dept := range sortedKeys(groups) {
		g := groups[dept]
		mn, mx := minMax(g.baseRate)
		out.Append(dataset.Row{
			dto.ColDepartmentName:  dataset.String(dept),
			"total_employees":      dataset.Int(int64(g.employees)),
			"avg_base_rate":        round2Val(mean(g.baseRate)),
			"median_base_rate":     round2Val(median(g.baseRate)),
			"min_base_rate":        round2Val(mn),
			"max_base_rate":        round2Val(mx),
			"avg_years_of_service": round2Val(mean(g.years)),
			"avg_age":              round2Val(mean(g.age)),
			"avg_vacation_hours":   round2Val(mean(g.vacation)),
			"avg_sick_leave_hours": round2Val(mean(g.sick)),
		})
	}
	return out
}

func buildGenderDiversity(ds *dataset.Dataset) *dataset.Dataset {
	type key struct{ dept, gender string }

	counts := make(map[key]int)
	totals := make(map[string]int)
	for _, row := range ds.Rows {
		dept, ok := groupName(row[dto.ColDepartmentName])
		if !ok {
			continue
		}
		gender, ok := groupName(row[dto.ColGender])
		if !ok {
			continue
		}
		counts[key{dept, gender}]++
		totals[dept]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dept != keys[j].dept {
			return keys[i].dept < keys[j].dept
		}
		return keys[i].gender < keys[j].gender
	})

	out := dataset.New(dto.ColDepartmentName, dto.ColGender, "employee_count", "percentage")
	for _, k := range keys {
		n := counts[k]
		pct := float64(n) / float64(totals[k.dept]) * 100
		out.Append(dataset.Row{
			dto.ColDepartmentName: dataset.String(k.dept),
			dto.ColGender:         dataset.String(k.gender),
			"employee_count":      dataset.Int(int64(n)),
			"percentage":          round2Val(pct),
		})
	}
	return out
}

// Tenure bands are half-open [lo, hi); the leading band starts at -1 so a
// floored zero tenure lands in "0-1 years".
var tenureBands = []struct {
	lo, hi float64
	label  string
}{
	{-1, 1, "0-1 years"},
	{1, 3, "1-3 years"},
	{3, 5, "3-5 years"},
	{5, 10, "5-10 years"},
	{10, 100, "10+ years"},
}

func tenureBand(years float64) (int, bool) {
	for i, b := range tenureBands {
		if years >= b.lo && years < b.hi {
			return i, true
		}
	}
	return 0, false
}

func buildTenureAnalysis(ds *dataset.Dataset) *dataset.Dataset {
	type key struct {
		dept string
		band int
	}

	counts := make(map[key]int)
	for _, row := range ds.Rows {
		dept, ok := groupName(row[dto.ColDepartmentName])
		if !ok {
			continue
		}
		years, ok := dataset.ParseFloatOK(row[dto.ColYearsOfService])
		if !ok {
			continue
		}
		band, ok := tenureBand(years)
		if !ok {
			continue
		}
		counts[key{dept, band}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dept != keys[j].dept {
			return keys[i].dept < keys[j].dept
		}
		return keys[i].band < keys[j].band
	})

	out := dataset.New(dto.ColDepartmentName, "tenure_band", "employee_count")
	for _, k := range keys {
		out.Append(dataset.Row{
			dto.ColDepartmentName: dataset.String(k.dept),
			"tenure_band":         dataset.String(tenureBands[k.band].label),
			"employee_count":      dataset.Int(int64(counts[k])),
		})
	}
	return out
}

func buildHiringTrends(ds *dataset.Dataset) *dataset.Dataset {
	type key struct {
		year int
		dept string
	}

	counts := make(map[key]int)
	for _, row := range ds.Rows {
		dept, ok := groupName(row[dto.ColDepartmentName])
		if !ok {
			continue
		}
		hired, ok := dataset.ParseDate(row[dto.ColHireDate])
		if !ok {
			continue
		}
		counts[key{hired.Year(), dept}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// Descending by (hire_year, new_hires); department name breaks ties
	// so reruns stay byte-identical.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year > keys[j].year
		}
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i].dept < keys[j].dept
	})

	out := dataset.New("hire_year", dto.ColDepartmentName, "new_hires")
	for _, k := range keys {
		out.Append(dataset.Row{
			"hire_year":           dataset.Int(int64(k.year)),
			dto.ColDepartmentName: dataset.String(k.dept),
			"new_hires":           dataset.Int(int64(counts[k])),
		})
	}
	return out
}

func groupName(v dataset.Value) (string, bool) {
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func appendFloat(dst *[]float64, v dataset.Value) {
	if f, ok := dataset.ParseFloatOK(v); ok {
		*dst = append(*dst, f)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minMax(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		mn = math.Min(mn, v)
		mx = math.Max(mx, v)
	}
	return mn, mx
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round2Val(v float64) dataset.Value {
	return dataset.Float(round2(v))
}
