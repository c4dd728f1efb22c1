package rule

import "context"

type Repository interface {
	Create(ctx context.Context, r *ApprovalRule) error
	GetByRuleID(ctx context.Context, ruleID string) (*ApprovalRule, error)

	// All rules of a company in creation order
	ListByCompany(ctx context.Context, companyID string) ([]ApprovalRule, error)
	// Active rules of a company in creation order
	ListActiveByCompany(ctx context.Context, companyID string) ([]ApprovalRule, error)

	Save(ctx context.Context, r *ApprovalRule) error
	Delete(ctx context.Context, ruleID string) error
}
