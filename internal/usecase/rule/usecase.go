package rule

import (
	"context"

	domain "expense-workflow/internal/domain/rule"
	"expense-workflow/pkg/id"

	"go.uber.org/zap"
)

type Usecase struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewUsecase(r domain.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, log: log}
}

func (u *Usecase) Create(ctx context.Context, companyID string, in CreateInput) (*RuleDTO, error) {
	r := &domain.ApprovalRule{
		RuleID:              id.New(),
		CompanyID:           companyID,
		Name:                in.Name,
		Description:         in.Description,
		RuleType:            in.RuleType,
		ApproverIDs:         in.ApproverIDs,
		PercentageThreshold: in.PercentageThreshold,
		SpecificApproverID:  in.SpecificApproverID,
		Order:               in.Order,
		IsActive:            in.IsActive == nil || *in.IsActive,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	u.log.Info("approval rule created", zap.String("rule_id", r.RuleID), zap.String("rule_type", string(r.RuleType)))
	return toDTO(r), nil
}

func (u *Usecase) List(ctx context.Context, companyID string) ([]RuleDTO, error) {
	rules, err := u.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]RuleDTO, 0, len(rules))
	for i := range rules {
		out = append(out, *toDTO(&rules[i]))
	}
	return out, nil
}

// Update applies the patch and re-validates the rule as a whole.
// Expenses already created keep their frozen approver sequence.
func (u *Usecase) Update(ctx context.Context, companyID, ruleID string, in UpdateInput) (*RuleDTO, error) {
	r, err := u.get(ctx, companyID, ruleID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.RuleType != nil {
		r.RuleType = *in.RuleType
	}
	if in.ApproverIDs != nil {
		r.ApproverIDs = *in.ApproverIDs
	}
	if in.PercentageThreshold != nil {
		r.PercentageThreshold = in.PercentageThreshold
	}
	if in.SpecificApproverID != nil {
		r.SpecificApproverID = in.SpecificApproverID
	}
	if in.Order != nil {
		r.Order = *in.Order
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := u.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return toDTO(r), nil
}

func (u *Usecase) Delete(ctx context.Context, companyID, ruleID string) error {
	if _, err := u.get(ctx, companyID, ruleID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, ruleID); err != nil {
		return err
	}
	u.log.Info("approval rule deleted", zap.String("rule_id", ruleID))
	return nil
}

func (u *Usecase) get(ctx context.Context, companyID, ruleID string) (*domain.ApprovalRule, error) {
	r, err := u.repo.GetByRuleID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if r.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return r, nil
}
