package company

import "context"

type Repository interface {
	Create(ctx context.Context, c *Company) error

	// Get by public company_id; ErrNotFound when missing
	GetByCompanyID(ctx context.Context, companyID string) (*Company, error)
}
