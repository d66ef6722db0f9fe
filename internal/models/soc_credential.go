package models

import "time"

// SOCCredential holds one owner's integration credentials for one export
// type, as configured on the dashboard settings screen. The employee export
// additionally carries situation filter flags; the absenteeism export carries
// the work-company code and a date range.
type SOCCredential struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	UserID          string    `gorm:"column:user_id;uniqueIndex:idx_soc_credentials_owner_type" json:"user_id"`
	Type            SyncType  `gorm:"column:type;uniqueIndex:idx_soc_credentials_owner_type" json:"type"`
	AccountCode     string    `gorm:"column:account_code" json:"account_code"`
	IntegrationCode string    `gorm:"column:integration_code" json:"integration_code"`
	IntegrationKey  string    `gorm:"column:integration_key" json:"integration_key"`
	IncludeActive   bool      `gorm:"column:include_active" json:"include_active"`
	IncludeInactive bool      `gorm:"column:include_inactive" json:"include_inactive"`
	IncludeAway     bool      `gorm:"column:include_away" json:"include_away"`
	IncludePending  bool      `gorm:"column:include_pending" json:"include_pending"`
	IncludeVacation bool      `gorm:"column:include_vacation" json:"include_vacation"`
	WorkCompanyCode *string   `gorm:"column:work_company_code" json:"work_company_code,omitempty"`
	StartDate       *string   `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate         *string   `gorm:"column:end_date" json:"end_date,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (SOCCredential) TableName() string {
	return "soc_credentials"
}
