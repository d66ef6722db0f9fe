package models

import "time"

// Company mirrors one SOC company record for one owner. SOCCode is the
// provider's natural key; (user_id, soc_code) is the upsert key.
type Company struct {
	ID                   string    `gorm:"column:id;primaryKey" json:"id"`
	UserID               string    `gorm:"column:user_id;uniqueIndex:idx_companies_owner_code" json:"user_id"`
	SOCCode              string    `gorm:"column:soc_code;uniqueIndex:idx_companies_owner_code" json:"soc_code"`
	ShortName            *string   `gorm:"column:short_name" json:"short_name,omitempty"`
	CorporateName        *string   `gorm:"column:corporate_name" json:"corporate_name,omitempty"`
	InitialCorporateName *string   `gorm:"column:initial_corporate_name" json:"initial_corporate_name,omitempty"`
	Address              *string   `gorm:"column:address" json:"address,omitempty"`
	AddressNumber        *string   `gorm:"column:address_number" json:"address_number,omitempty"`
	AddressComplement    *string   `gorm:"column:address_complement" json:"address_complement,omitempty"`
	Neighborhood         *string   `gorm:"column:neighborhood" json:"neighborhood,omitempty"`
	City                 *string   `gorm:"column:city" json:"city,omitempty"`
	ZipCode              *string   `gorm:"column:zip_code" json:"zip_code,omitempty"`
	State                *string   `gorm:"column:state" json:"state,omitempty"`
	TaxID                *string   `gorm:"column:tax_id" json:"tax_id,omitempty"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Company) TableName() string {
	return "companies"
}
