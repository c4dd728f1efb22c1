package companymock

import (
	"context"

	"expense-workflow/internal/domain/company"
)

var _ company.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies company.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, c *company.Company) error
	GetByCompanyIDFn func(ctx context.Context, companyID string) (*company.Company, error)
}

func (m *Repo) Create(ctx context.Context, c *company.Company) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByCompanyID(ctx context.Context, companyID string) (*company.Company, error) {
	if m.GetByCompanyIDFn != nil {
		return m.GetByCompanyIDFn(ctx, companyID)
	}
	return nil, context.Canceled
}
