package mysql

import (
	"context"

	"expense-workflow/internal/domain/rule"

	"gorm.io/gorm"
)

type RuleRepository struct{ db *gorm.DB }

func NewRuleRepository(db *gorm.DB) *RuleRepository { return &RuleRepository{db: db} }

func (r *RuleRepository) Create(ctx context.Context, ar *rule.ApprovalRule) error {
	return translate(r.db.WithContext(ctx).Create(ar).Error, rule.ErrNotFound)
}

func (r *RuleRepository) GetByRuleID(ctx context.Context, ruleID string) (*rule.ApprovalRule, error) {
	var out rule.ApprovalRule
	if err := r.db.WithContext(ctx).Where("rule_id = ?", ruleID).First(&out).Error; err != nil {
		return nil, translate(err, rule.ErrNotFound)
	}
	return &out, nil
}

func (r *RuleRepository) ListByCompany(ctx context.Context, companyID string) ([]rule.ApprovalRule, error) {
	var out []rule.ApprovalRule
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id ASC").Find(&out).Error
	return out, translate(err, rule.ErrNotFound)
}

func (r *RuleRepository) ListActiveByCompany(ctx context.Context, companyID string) ([]rule.ApprovalRule, error) {
	var out []rule.ApprovalRule
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("id ASC").
		Find(&out).Error
	return out, translate(err, rule.ErrNotFound)
}

func (r *RuleRepository) Save(ctx context.Context, ar *rule.ApprovalRule) error {
	return translate(r.db.WithContext(ctx).Save(ar).Error, rule.ErrNotFound)
}

func (r *RuleRepository) Delete(ctx context.Context, ruleID string) error {
	res := r.db.WithContext(ctx).Where("rule_id = ?", ruleID).Delete(&rule.ApprovalRule{})
	if res.Error != nil {
		return translate(res.Error, rule.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return rule.ErrNotFound
	}
	return nil
}
