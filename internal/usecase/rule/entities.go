package rule

import (
	"time"

	domain "expense-workflow/internal/domain/rule"
)

type CreateInput struct {
	Name                string
	Description         string
	RuleType            domain.Type
	ApproverIDs         []string
	PercentageThreshold *int
	SpecificApproverID  *string
	Order               []string
	// nil means active
	IsActive *bool
}

// UpdateInput is a partial patch; nil fields are left unchanged.
type UpdateInput struct {
	Name                *string
	Description         *string
	RuleType            *domain.Type
	ApproverIDs         *[]string
	PercentageThreshold *int
	SpecificApproverID  *string
	Order               *[]string
	IsActive            *bool
}

type RuleDTO struct {
	RuleID              string    `json:"rule_id"`
	CompanyID           string    `json:"company_id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	RuleType            string    `json:"rule_type"`
	ApproverIDs         []string  `json:"approver_ids"`
	PercentageThreshold *int      `json:"percentage_threshold,omitempty"`
	SpecificApproverID  *string   `json:"specific_approver_id,omitempty"`
	Order               []string  `json:"order"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toDTO(r *domain.ApprovalRule) *RuleDTO {
	return &RuleDTO{
		RuleID:              r.RuleID,
		CompanyID:           r.CompanyID,
		Name:                r.Name,
		Description:         r.Description,
		RuleType:            string(r.RuleType),
		ApproverIDs:         nonNil(r.ApproverIDs),
		PercentageThreshold: r.PercentageThreshold,
		SpecificApproverID:  r.SpecificApproverID,
		Order:               nonNil(r.Order),
		IsActive:            r.IsActive,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
