package transform_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dataset"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/quality"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/storage"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/transform"
)

// refClock is the injected reference clock used by every derivation test.
var refClock = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func newTransformer(t *testing.T) *transform.Transformer {
	t.Helper()
	bronze, err := storage.NewLayer(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	silver, err := storage.NewLayer(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return transform.NewTransformer(bronze, silver, quality.NewGate(1, zerolog.Nop()), zerolog.Nop())
}

// rawDataset mimics a bronze materialization reloaded from CSV: every cell
// is a string or null.
func rawDataset(columns []string, rows ...dataset.Row) *dataset.Dataset {
	ds := dataset.New(columns...)
	for _, r := range rows {
		ds.Append(r)
	}
	return ds
}

var fullColumns = []string{
	dto.ColEmployeeKey, dto.ColFirstName, dto.ColMiddleName, dto.ColLastName,
	dto.ColTitle, dto.ColHireDate, dto.ColBirthDate, dto.ColEmailAddress,
	dto.ColPhone, dto.ColMaritalStatus, dto.ColSalariedFlag, dto.ColGender,
	dto.ColBaseRate, dto.ColVacationHours, dto.ColSickLeaveHours,
	dto.ColCurrentFlag, dto.ColSalesPersonFlag, dto.ColDepartmentName,
	dto.ColExtractionTimestamp,
}

func employeeRow(key string, overrides dataset.Row) dataset.Row {
	row := dataset.Row{
		dto.ColEmployeeKey:         dataset.String(key),
		dto.ColFirstName:           dataset.String("John"),
		dto.ColMiddleName:          dataset.Null(),
		dto.ColLastName:            dataset.String("Doe"),
		dto.ColTitle:               dataset.String("Engineer"),
		dto.ColHireDate:            dataset.String("2023-01-15"),
		dto.ColBirthDate:           dataset.String("2020-01-15"),
		dto.ColEmailAddress:        dataset.String("john@company.test"),
		dto.ColPhone:               dataset.String("555-0100"),
		dto.ColMaritalStatus:       dataset.String("S"),
		dto.ColSalariedFlag:        dataset.String("True"),
		dto.ColGender:              dataset.String("M"),
		dto.ColBaseRate:            dataset.String("23.72"),
		dto.ColVacationHours:       dataset.String("40"),
		dto.ColSickLeaveHours:      dataset.String("20"),
		dto.ColCurrentFlag:         dataset.String("true"),
		dto.ColSalesPersonFlag:     dataset.String("false"),
		dto.ColDepartmentName:      dataset.String("Engineering"),
		dto.ColExtractionTimestamp: dataset.String("2024-01-15T00:00:00Z"),
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestTransformCleansAndDerives(t *testing.T) {
	raw := rawDataset(fullColumns,
		employeeRow("1", dataset.Row{
			dto.ColFirstName:  dataset.String("  John "),
			dto.ColLastName:   dataset.String(" Doe  "),
			dto.ColMiddleName: dataset.Null(),
			dto.ColTitle:      dataset.Null(),
		}),
		employeeRow("2", dataset.Row{
			dto.ColFirstName:  dataset.String("Jane"),
			dto.ColMiddleName: dataset.String("Q"),
			dto.ColLastName:   dataset.String("Smith"),
		}),
	)

	tr := newTransformer(t)
	out, report, err := tr.Transform(raw, refClock)
	require.NoError(t, err)
	require.Equal(t, 2, report.InputRows)
	require.Equal(t, 2, report.OutputRows)

	require.False(t, out.HasColumn(dto.ColExtractionTimestamp))

	first := out.Rows[0]
	require.Equal(t, "John", first[dto.ColFirstName].Str())
	require.Equal(t, "John Doe", first[dto.ColFullName].Str())
	require.Equal(t, "Not Specified", first[dto.ColTitle].Str())
	require.Equal(t, "", first[dto.ColMiddleName].Str())

	second := out.Rows[1]
	require.Equal(t, "Jane Q Smith", second[dto.ColFullName].Str())
}

func TestTransformDerivedYears(t *testing.T) {
	raw := rawDataset(fullColumns,
		employeeRow("1", dataset.Row{
			// 2020-01-15 → 2024-01-15 is 1461 days; floor(1461/365) = 4.
			dto.ColBirthDate: dataset.String("2020-01-15"),
			// 2023-01-15 → 2024-01-15 is 365 days; floor(365/365) = 1.
			dto.ColHireDate: dataset.String("2023-01-15"),
		}),
	)

	tr := newTransformer(t)
	out, _, err := tr.Transform(raw, refClock)
	require.NoError(t, err)

	age, ok := out.Rows[0][dto.ColAge].Int()
	require.True(t, ok)
	require.EqualValues(t, 4, age)

	years, ok := out.Rows[0][dto.ColYearsOfService].Int()
	require.True(t, ok)
	require.EqualValues(t, 1, years)
}

func TestTransformUnparseableDates(t *testing.T) {
	raw := rawDataset(fullColumns,
		employeeRow("1", dataset.Row{
			dto.ColBirthDate: dataset.String("not-a-date"),
			dto.ColHireDate:  dataset.Null(),
		}),
	)

	tr := newTransformer(t)
	out, report, err := tr.Transform(raw, refClock)
	require.NoError(t, err)

	// Parse failure degrades to null, never a crash; absent source date
	// means absent derived value.
	require.True(t, out.Rows[0][dto.ColBirthDate].IsNull())
	require.True(t, out.Rows[0][dto.ColAge].IsNull())
	require.True(t, out.Rows[0][dto.ColYearsOfService].IsNull())
	require.Equal(t, 1, report.DateParseFailures)
}

func TestTransformCategoricalMapping(t *testing.T) {
	tests := []struct {
		name          string
		gender        dataset.Value
		marital       dataset.Value
		wantGender    string
		wantMarital   string
		genderFlag    bool
		maritalFlag   bool
		unmappedTotal int
	}{
		{
			name:        "mapped codes",
			gender:      dataset.String("M"),
			marital:     dataset.String("S"),
			wantGender:  "Male",
			wantMarital: "Single",
		},
		{
			name:        "female married",
			gender:      dataset.String("F"),
			marital:     dataset.String("M"),
			wantGender:  "Female",
			wantMarital: "Married",
		},
		{
			name:          "unmapped code preserved and flagged",
			gender:        dataset.String("X"),
			marital:       dataset.String("D"),
			wantGender:    "X",
			wantMarital:   "D",
			genderFlag:    true,
			maritalFlag:   true,
			unmappedTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawDataset(fullColumns,
				employeeRow("1", dataset.Row{
					dto.ColGender:        tt.gender,
					dto.ColMaritalStatus: tt.marital,
				}),
			)

			tr := newTransformer(t)
			out, report, err := tr.Transform(raw, refClock)
			require.NoError(t, err)

			row := out.Rows[0]
			require.Equal(t, tt.wantGender, row[dto.ColGender].Str())
			require.Equal(t, tt.wantMarital, row[dto.ColMaritalStatus].Str())

			genderFlag, _ := row[dto.ColGenderUnmapped].Bool()
			maritalFlag, _ := row[dto.ColMaritalStatusUnmapped].Bool()
			require.Equal(t, tt.genderFlag, genderFlag)
			require.Equal(t, tt.maritalFlag, maritalFlag)
			require.Equal(t, tt.unmappedTotal, report.UnmappedGender)
			require.Equal(t, tt.unmappedTotal, report.UnmappedMaritalStatus)
		})
	}
}

func TestTransformNumericAndBooleanCoercion(t *testing.T) {
	raw := rawDataset(fullColumns,
		employeeRow("1", dataset.Row{
			dto.ColBaseRate:        dataset.String("not-a-number"),
			dto.ColVacationHours:   dataset.Null(),
			dto.ColSickLeaveHours:  dataset.String("12.5"),
			dto.ColSalariedFlag:    dataset.String("garbage"),
			dto.ColCurrentFlag:     dataset.String("1"),
			dto.ColSalesPersonFlag: dataset.Null(),
		}),
	)

	tr := newTransformer(t)
	out, _, err := tr.Transform(raw, refClock)
	require.NoError(t, err)

	row := out.Rows[0]

	base, _ := row[dto.ColBaseRate].Float()
	require.Zero(t, base)
	vac, _ := row[dto.ColVacationHours].Float()
	require.Zero(t, vac)
	sick, _ := row[dto.ColSickLeaveHours].Float()
	require.Equal(t, 12.5, sick)

	salaried, ok := row[dto.ColSalariedFlag].Bool()
	require.True(t, ok)
	require.False(t, salaried)
	current, _ := row[dto.ColCurrentFlag].Bool()
	require.True(t, current)
	sales, ok := row[dto.ColSalesPersonFlag].Bool()
	require.True(t, ok)
	require.False(t, sales)
}

func TestTransformQualityScore(t *testing.T) {
	tests := []struct {
		name      string
		overrides dataset.Row
		want      int64
	}{
		{name: "all critical fields present", overrides: dataset.Row{}, want: 100},
		{
			name:      "one missing",
			overrides: dataset.Row{dto.ColEmailAddress: dataset.Null()},
			want:      90,
		},
		{
			name: "all three missing",
			overrides: dataset.Row{
				dto.ColEmailAddress:   dataset.Null(),
				dto.ColPhone:          dataset.Null(),
				dto.ColDepartmentName: dataset.Null(),
			},
			want: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawDataset(fullColumns, employeeRow("1", tt.overrides))

			tr := newTransformer(t)
			out, _, err := tr.Transform(raw, refClock)
			require.NoError(t, err)

			score, ok := out.Rows[0][dto.ColDataQualityScore].Int()
			require.True(t, ok)
			require.Equal(t, tt.want, score)
			require.Zero(t, (100-score)%10)
		})
	}
}

func TestTransformDedupLastWins(t *testing.T) {
	raw := rawDataset(fullColumns,
		employeeRow("7", dataset.Row{dto.ColCurrentFlag: dataset.String("false")}),
		employeeRow("3", dataset.Row{}),
		employeeRow("7", dataset.Row{dto.ColCurrentFlag: dataset.String("true")}),
	)

	tr := newTransformer(t)
	out, report, err := tr.Transform(raw, refClock)
	require.NoError(t, err)
	require.Equal(t, 1, report.DuplicatesRemoved)
	require.Equal(t, 2, out.Len())

	// The surviving key-7 row is the last occurrence, kept at its original
	// position relative to the other rows.
	require.Equal(t, "3", out.Rows[0][dto.ColEmployeeKey].String())
	require.Equal(t, "7", out.Rows[1][dto.ColEmployeeKey].String())

	current, ok := out.Rows[1][dto.ColCurrentFlag].Bool()
	require.True(t, ok)
	require.True(t, current)
}

func TestTransformMissingKeyColumnIsFatal(t *testing.T) {
	raw := rawDataset([]string{dto.ColFirstName}, dataset.Row{
		dto.ColFirstName: dataset.String("John"),
	})

	tr := newTransformer(t)
	_, _, err := tr.Transform(raw, refClock)
	require.ErrorIs(t, err, dto.ErrKeyUnparseable)
}

func TestTransformDeterminism(t *testing.T) {
	raw := rawDataset(fullColumns,
		employeeRow("1", dataset.Row{}),
		employeeRow("2", dataset.Row{dto.ColGender: dataset.String("F")}),
		employeeRow("1", dataset.Row{dto.ColBaseRate: dataset.String("31.25")}),
	)

	tr := newTransformer(t)
	first, _, err := tr.Transform(raw, refClock)
	require.NoError(t, err)
	second, _, err := tr.Transform(raw, refClock)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	raw := rawDataset(fullColumns, employeeRow("1", dataset.Row{
		dto.ColFirstName: dataset.String("  padded  "),
	}))
	before := raw.Clone()

	tr := newTransformer(t)
	_, _, err := tr.Transform(raw, refClock)
	require.NoError(t, err)

	require.Equal(t, before, raw)
}

func TestRunMaterializesSilver(t *testing.T) {
	bronze, err := storage.NewLayer(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	silver, err := storage.NewLayer(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	tr := transform.NewTransformer(bronze, silver, quality.NewGate(1, zerolog.Nop()), zerolog.Nop())

	raw := rawDataset(fullColumns, employeeRow("1", dataset.Row{}))
	_, err = bronze.Save("dimemployee", raw, refClock)
	require.NoError(t, err)

	ds, path, report, err := tr.Run(refClock, transform.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, report.OutputRows)
	require.NotEmpty(t, path)
	require.True(t, ds.HasColumn(dto.ColTransformationTimestamp))

	reloaded, err := silver.LoadLatest("employees")
	require.NoError(t, err)
	require.Equal(t, ds.Columns, reloaded.Columns)
	require.Equal(t, "John Doe", reloaded.Rows[0][dto.ColFullName].Str())
}

func TestRunFailsWithoutBronze(t *testing.T) {
	tr := newTransformer(t)

	_, _, _, err := tr.Run(refClock, transform.Options{})
	require.ErrorIs(t, err, dto.ErrUpstreamMissing)
}

func TestFilterActive(t *testing.T) {
	t.Run("keeps only current employees", func(t *testing.T) {
		ds := dataset.New(dto.ColEmployeeKey, dto.ColCurrentFlag)
		ds.Append(dataset.Row{dto.ColEmployeeKey: dataset.Int(1), dto.ColCurrentFlag: dataset.Bool(true)})
		ds.Append(dataset.Row{dto.ColEmployeeKey: dataset.Int(2), dto.ColCurrentFlag: dataset.Bool(false)})

		tr := newTransformer(t)
		out := tr.FilterActive(ds)
		require.Equal(t, 1, out.Len())

		key, _ := out.Rows[0][dto.ColEmployeeKey].Int()
		require.EqualValues(t, 1, key)
	})

	t.Run("no-op when column absent", func(t *testing.T) {
		ds := dataset.New(dto.ColEmployeeKey)
		ds.Append(dataset.Row{dto.ColEmployeeKey: dataset.Int(1)})

		tr := newTransformer(t)
		out := tr.FilterActive(ds)
		require.Equal(t, 1, out.Len())
	})
}
