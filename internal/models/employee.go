package models

import "time"

// Employee mirrors one SOC employee record for one owner. Dates are stored
// as the provider sends them (dd/mm/yyyy text); the dashboard formats them
// client-side.
type Employee struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	UserID         string    `gorm:"column:user_id;uniqueIndex:idx_employees_owner_code" json:"user_id"`
	SOCCode        string    `gorm:"column:soc_code;uniqueIndex:idx_employees_owner_code" json:"soc_code"`
	CompanyID      string    `gorm:"column:company_id;index" json:"company_id"`
	CompanySOCCode *string   `gorm:"column:company_soc_code" json:"company_soc_code,omitempty"`
	FullName       *string   `gorm:"column:full_name" json:"full_name,omitempty"`
	Registration   *string   `gorm:"column:registration;index" json:"registration,omitempty"`
	CPF            *string   `gorm:"column:cpf" json:"cpf,omitempty"`
	Gender         *string   `gorm:"column:gender" json:"gender,omitempty"`
	Status         *string   `gorm:"column:status" json:"status,omitempty"`
	BirthDate      *string   `gorm:"column:birth_date" json:"birth_date,omitempty"`
	AdmissionDate  *string   `gorm:"column:admission_date" json:"admission_date,omitempty"`
	DismissalDate  *string   `gorm:"column:dismissal_date" json:"dismissal_date,omitempty"`
	PositionCode   *string   `gorm:"column:position_code" json:"position_code,omitempty"`
	PositionName   *string   `gorm:"column:position_name" json:"position_name,omitempty"`
	SectorCode     *string   `gorm:"column:sector_code" json:"sector_code,omitempty"`
	SectorName     *string   `gorm:"column:sector_name" json:"sector_name,omitempty"`
	UnitCode       *string   `gorm:"column:unit_code" json:"unit_code,omitempty"`
	UnitName       *string   `gorm:"column:unit_name" json:"unit_name,omitempty"`
	Email          *string   `gorm:"column:email" json:"email,omitempty"`
	MobilePhone    *string   `gorm:"column:mobile_phone" json:"mobile_phone,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Employee) TableName() string {
	return "employees"
}
