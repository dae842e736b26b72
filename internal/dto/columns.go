package dto

// Column names of the source star schema and the derived silver columns.
// Persisted CSV headers must match these exactly so a fresh process can
// reload any layer and resume from that stage boundary.
const (
	ColEmployeeKey                          = "EmployeeKey"
	ColParentEmployeeKey                    = "ParentEmployeeKey"
	ColEmployeeNationalIDAlternateKey       = "EmployeeNationalIDAlternateKey"
	ColParentEmployeeNationalIDAlternateKey = "ParentEmployeeNationalIDAlternateKey"
	ColSalesTerritoryKey                    = "SalesTerritoryKey"
	ColFirstName                            = "FirstName"
	ColLastName                             = "LastName"
	ColMiddleName                           = "MiddleName"
	ColNameStyle                            = "NameStyle"
	ColTitle                                = "Title"
	ColHireDate                             = "HireDate"
	ColBirthDate                            = "BirthDate"
	ColLoginID                              = "LoginID"
	ColEmailAddress                         = "EmailAddress"
	ColPhone                                = "Phone"
	ColMaritalStatus                        = "MaritalStatus"
	ColEmergencyContactName                 = "EmergencyContactName"
	ColEmergencyContactPhone                = "EmergencyContactPhone"
	ColSalariedFlag                         = "SalariedFlag"
	ColGender                               = "Gender"
	ColPayFrequency                         = "PayFrequency"
	ColBaseRate                             = "BaseRate"
	ColVacationHours                        = "VacationHours"
	ColSickLeaveHours                       = "SickLeaveHours"
	ColCurrentFlag                          = "CurrentFlag"
	ColSalesPersonFlag                      = "SalesPersonFlag"
	ColDepartmentName                       = "DepartmentName"
	ColStartDate                            = "StartDate"
	ColEndDate                              = "EndDate"
	ColStatus                               = "Status"

	ColDepartmentGroupKey       = "DepartmentGroupKey"
	ColParentDepartmentGroupKey = "ParentDepartmentGroupKey"
	ColDepartmentGroupName      = "DepartmentGroupName"

	// Derived by the transformation engine.
	ColFullName              = "FullName"
	ColAge                   = "Age"
	ColYearsOfService        = "YearsOfService"
	ColDataQualityScore      = "data_quality_score"
	ColGenderUnmapped        = "GenderUnmapped"
	ColMaritalStatusUnmapped = "MaritalStatusUnmapped"

	// Stage metadata.
	ColExtractionTimestamp     = "extraction_timestamp"
	ColTransformationTimestamp = "transformation_timestamp"
)

// EmployeeSourceColumns is the fixed projection extracted from dbo.DimEmployee.
var EmployeeSourceColumns = []string{
	ColEmployeeKey,
	ColParentEmployeeKey,
	ColEmployeeNationalIDAlternateKey,
	ColParentEmployeeNationalIDAlternateKey,
	ColSalesTerritoryKey,
	ColFirstName,
	ColLastName,
	ColMiddleName,
	ColNameStyle,
	ColTitle,
	ColHireDate,
	ColBirthDate,
	ColLoginID,
	ColEmailAddress,
	ColPhone,
	ColMaritalStatus,
	ColEmergencyContactName,
	ColEmergencyContactPhone,
	ColSalariedFlag,
	ColGender,
	ColPayFrequency,
	ColBaseRate,
	ColVacationHours,
	ColSickLeaveHours,
	ColCurrentFlag,
	ColSalesPersonFlag,
	ColDepartmentName,
	ColStartDate,
	ColEndDate,
	ColStatus,
}

// DepartmentSourceColumns is the fixed projection extracted from dbo.DimDepartmentGroup.
var DepartmentSourceColumns = []string{
	ColDepartmentGroupKey,
	ColParentDepartmentGroupKey,
	ColDepartmentGroupName,
}
