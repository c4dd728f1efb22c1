package rulemock

import (
	"context"

	"expense-workflow/internal/domain/rule"
)

var _ rule.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies rule.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, r *rule.ApprovalRule) error
	GetByRuleIDFn         func(ctx context.Context, ruleID string) (*rule.ApprovalRule, error)
	ListByCompanyFn       func(ctx context.Context, companyID string) ([]rule.ApprovalRule, error)
	ListActiveByCompanyFn func(ctx context.Context, companyID string) ([]rule.ApprovalRule, error)
	SaveFn                func(ctx context.Context, r *rule.ApprovalRule) error
	DeleteFn              func(ctx context.Context, ruleID string) error
}

func (m *Repo) Create(ctx context.Context, r *rule.ApprovalRule) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRuleID(ctx context.Context, ruleID string) (*rule.ApprovalRule, error) {
	if m.GetByRuleIDFn != nil {
		return m.GetByRuleIDFn(ctx, ruleID)
	}
	return nil, rule.ErrNotFound
}

func (m *Repo) ListByCompany(ctx context.Context, companyID string) ([]rule.ApprovalRule, error) {
	if m.ListByCompanyFn != nil {
		return m.ListByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

// ListActiveByCompany defaults to no rules.
func (m *Repo) ListActiveByCompany(ctx context.Context, companyID string) ([]rule.ApprovalRule, error) {
	if m.ListActiveByCompanyFn != nil {
		return m.ListActiveByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, r *rule.ApprovalRule) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, ruleID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ruleID)
	}
	return nil
}
