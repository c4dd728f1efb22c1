package mysql

import (
	"context"

	"expense-workflow/internal/domain/company"

	"gorm.io/gorm"
)

type CompanyRepository struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) *CompanyRepository { return &CompanyRepository{db: db} }

func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, company.ErrNotFound)
}

func (r *CompanyRepository) GetByCompanyID(ctx context.Context, companyID string) (*company.Company, error) {
	var out company.Company
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&out).Error; err != nil {
		return nil, translate(err, company.ErrNotFound)
	}
	return &out, nil
}
