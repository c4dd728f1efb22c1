package company

import (
	"time"

	"expense-workflow/internal/domain/apperr"
)

var ErrNotFound = apperr.NotFound("company not found")

// Table: companies
type Company struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CompanyID    string    `gorm:"column:company_id;type:char(32);not null;uniqueIndex:ux_companies_company_id" json:"company_id"`
	Name         string    `gorm:"column:name;size:200;not null" json:"name"`
	CountryCode  string    `gorm:"column:country_code;type:char(2);not null" json:"country_code"`
	CurrencyCode string    `gorm:"column:currency_code;type:char(3);not null" json:"currency_code"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }
