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

const employeeQuery = `
select EmployeeKey,
       ParentEmployeeKey,
       EmployeeNationalIDAlternateKey,
       ParentEmployeeNationalIDAlternateKey,
       SalesTerritoryKey,
       FirstName,
       LastName,
       MiddleName,
       NameStyle,
       Title,
       HireDate,
       BirthDate,
       LoginID,
       EmailAddress,
       Phone,
       MaritalStatus,
       EmergencyContactName,
       EmergencyContactPhone,
       SalariedFlag,
       Gender,
       PayFrequency,
       BaseRate,
       VacationHours,
       SickLeaveHours,
       CurrentFlag,
       SalesPersonFlag,
       DepartmentName,
       StartDate,
       EndDate,
       Status
from dbo.DimEmployee
`

// EmployeeExtractor reads dbo.DimEmployee into the bronze layer.
type EmployeeExtractor struct {
	pool   PgxPoolIface
	bronze *storage.Layer
	gate   *quality.Gate
	log    zerolog.Logger
}

func NewEmployeeExtractor(pool PgxPoolIface, bronze *storage.Layer, gate *quality.Gate, log zerolog.Logger) *EmployeeExtractor {
	return &EmployeeExtractor{
		pool:   pool,
		bronze: bronze,
		gate:   gate,
		log:    log.With().Str("component", "EmployeeExtractor").Logger(),
	}
}

// Entity is the bronze file prefix.
func (e *EmployeeExtractor) Entity() string { return "dimemployee" }

func (e *EmployeeExtractor) Extract(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := e.pool.Query(ctx, employeeQuery)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	ds := dataset.New(dto.EmployeeSourceColumns...)

	for rows.Next() {
		var (
			employeeKey     int64
			parentKey       *int64
			nationalID      *string
			parentNatID     *string
			territoryKey    *int64
			firstName       *string
			lastName        *string
			middleName      *string
			nameStyle       *bool
			title           *string
			hireDate        *time.Time
			birthDate       *time.Time
			loginID         *string
			email           *string
			phone           *string
			maritalStatus   *string
			emContactName   *string
			emContactPhone  *string
			salariedFlag    *bool
			gender          *string
			payFrequency    *int64
			baseRate        *float64
			vacationHours   *int64
			sickLeaveHours  *int64
			currentFlag     *bool
			salesPersonFlag *bool
			departmentName  *string
			startDate       *time.Time
			endDate         *time.Time
			status          *string
		)

		err := rows.Scan(
			&employeeKey,
			&parentKey,
			&nationalID,
			&parentNatID,
			&territoryKey,
			&firstName,
			&lastName,
			&middleName,
			&nameStyle,
			&title,
			&hireDate,
			&birthDate,
			&loginID,
			&email,
			&phone,
			&maritalStatus,
			&emContactName,
			&emContactPhone,
			&salariedFlag,
			&gender,
			&payFrequency,
			&baseRate,
			&vacationHours,
			&sickLeaveHours,
			&currentFlag,
			&salesPersonFlag,
			&departmentName,
			&startDate,
			&endDate,
			&status,
		)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		ds.Append(dataset.Row{
			dto.ColEmployeeKey:                          dataset.Int(employeeKey),
			dto.ColParentEmployeeKey:                    intVal(parentKey),
			dto.ColEmployeeNationalIDAlternateKey:       strVal(nationalID),
			dto.ColParentEmployeeNationalIDAlternateKey: strVal(parentNatID),
			dto.ColSalesTerritoryKey:                    intVal(territoryKey),
			dto.ColFirstName:                            strVal(firstName),
			dto.ColLastName:                             strVal(lastName),
			dto.ColMiddleName:                           strVal(middleName),
			dto.ColNameStyle:                            boolVal(nameStyle),
			dto.ColTitle:                                strVal(title),
			dto.ColHireDate:                             dateVal(hireDate),
			dto.ColBirthDate:                            dateVal(birthDate),
			dto.ColLoginID:                              strVal(loginID),
			dto.ColEmailAddress:                         strVal(email),
			dto.ColPhone:                                strVal(phone),
			dto.ColMaritalStatus:                        strVal(maritalStatus),
			dto.ColEmergencyContactName:                 strVal(emContactName),
			dto.ColEmergencyContactPhone:                strVal(emContactPhone),
			dto.ColSalariedFlag:                         boolVal(salariedFlag),
			dto.ColGender:                               strVal(gender),
			dto.ColPayFrequency:                         intVal(payFrequency),
			dto.ColBaseRate:                             floatVal(baseRate),
			dto.ColVacationHours:                        intVal(vacationHours),
			dto.ColSickLeaveHours:                       intVal(sickLeaveHours),
			dto.ColCurrentFlag:                          boolVal(currentFlag),
			dto.ColSalesPersonFlag:                      boolVal(salesPersonFlag),
			dto.ColDepartmentName:                       strVal(departmentName),
			dto.ColStartDate:                            dateVal(startDate),
			dto.ColEndDate:                              dateVal(endDate),
			dto.ColStatus:                               strVal(status),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	e.log.Info().Int("rows", ds.Len()).Msg("employees extracted")
	return ds, nil
}

// Run extracts the entity, gates it, stamps extraction metadata and persists
// the bronze materialization.
func (e *EmployeeExtractor) Run(ctx context.Context, now time.Time) (*dataset.Dataset, string, error) {
	ds, err := e.Extract(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("extract employees: %w", err)
	}

	e.gate.Evaluate(ds, "DimEmployee")

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
