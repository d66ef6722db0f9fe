package models

import "time"

// Absenteeism mirrors one SOC medical-leave record for one owner. The
// provider assigns no single code to these records, so the natural key is
// the composite (employee registration, leave start date, primary ICD code)
// scoped to the owner.
type Absenteeism struct {
	ID                   string    `gorm:"column:id;primaryKey" json:"id"`
	UserID               string    `gorm:"column:user_id;uniqueIndex:idx_absenteeism_natural_key" json:"user_id"`
	EmployeeRegistration string    `gorm:"column:employee_registration;uniqueIndex:idx_absenteeism_natural_key" json:"employee_registration"`
	StartDate            string    `gorm:"column:start_date;uniqueIndex:idx_absenteeism_natural_key" json:"start_date"`
	ICDCode              string    `gorm:"column:icd_code;uniqueIndex:idx_absenteeism_natural_key" json:"icd_code"`
	EmployeeID           *string   `gorm:"column:employee_id;index" json:"employee_id,omitempty"`
	CompanyID            *string   `gorm:"column:company_id;index" json:"company_id,omitempty"`
	BirthDate            *string   `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Gender               *string   `gorm:"column:gender" json:"gender,omitempty"`
	CertificateType      *string   `gorm:"column:certificate_type" json:"certificate_type,omitempty"`
	EndDate              *string   `gorm:"column:end_date" json:"end_date,omitempty"`
	StartTime            *string   `gorm:"column:start_time" json:"start_time,omitempty"`
	EndTime              *string   `gorm:"column:end_time" json:"end_time,omitempty"`
	DaysAbsent           *string   `gorm:"column:days_absent" json:"days_absent,omitempty"`
	HoursAbsent          *string   `gorm:"column:hours_absent" json:"hours_absent,omitempty"`
	ICDDescription       *string   `gorm:"column:icd_description" json:"icd_description,omitempty"`
	PathologicalGroup    *string   `gorm:"column:pathological_group" json:"pathological_group,omitempty"`
	Sector               *string   `gorm:"column:sector" json:"sector,omitempty"`
	LicenseType          *string   `gorm:"column:license_type" json:"license_type,omitempty"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Absenteeism) TableName() string {
	return "absenteeism_records"
}
