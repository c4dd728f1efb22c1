package rule

import (
	"time"
	"unicode/utf8"

	"expense-workflow/internal/domain/apperr"
)

var (
	ErrNotFound = apperr.NotFound("rule not found")

	ErrInvalidName        = apperr.Validation("rule name must be 2-100 characters")
	ErrInvalidType        = apperr.Validation("unknown rule type")
	ErrThresholdRange     = apperr.Validation("percentage threshold must be between 1 and 100")
	ErrThresholdRequired  = apperr.Validation("percentage threshold is required for percentage and hybrid rules")
	ErrSpecificRequired   = apperr.Validation("specific approver is required for specific and hybrid rules")
	ErrDescriptionTooLong = apperr.Validation("rule description must be at most 500 characters")
)

type Type string

const (
	TypeSequential Type = "sequential"
	TypePercentage Type = "percentage"
	TypeSpecific   Type = "specific"
	TypeHybrid     Type = "hybrid"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeSequential, TypePercentage, TypeSpecific, TypeHybrid:
		return true
	}
	return false
}

// UsesPercentage reports whether the threshold short-circuit applies to this type.
func (t Type) UsesPercentage() bool { return t == TypePercentage || t == TypeHybrid }

// UsesSpecific reports whether the specific-approver short-circuit applies to this type.
func (t Type) UsesSpecific() bool { return t == TypeSpecific || t == TypeHybrid }

// Table: approval_rules
type ApprovalRule struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RuleID      string `gorm:"column:rule_id;type:char(32);not null;uniqueIndex:ux_approval_rules_rule_id" json:"rule_id"`
	CompanyID   string `gorm:"column:company_id;type:char(32);not null;index:idx_approval_rules_company_active" json:"company_id"`
	Name        string `gorm:"column:name;size:100;not null" json:"name"`
	Description string `gorm:"column:description;size:500" json:"description,omitempty"`
	RuleType    Type   `gorm:"column:rule_type;size:16;not null" json:"rule_type"`
	// ApproverIDs is an unordered set of public user ids
	ApproverIDs         []string `gorm:"column:approver_ids;type:text;serializer:json" json:"approver_ids"`
	PercentageThreshold *int     `gorm:"column:percentage_threshold" json:"percentage_threshold,omitempty"`
	SpecificApproverID  *string  `gorm:"column:specific_approver_id;type:char(32)" json:"specific_approver_id,omitempty"`
	// Order lists approvers explicitly; it is placed before ApproverIDs when sequencing
	Order     []string  `gorm:"column:approver_order;type:text;serializer:json" json:"order"`
	IsActive  bool      `gorm:"column:is_active;not null;index:idx_approval_rules_company_active" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ApprovalRule) TableName() string { return "approval_rules" }

// Threshold returns the percentage threshold and whether one is set.
func (r *ApprovalRule) Threshold() (int, bool) {
	if r.PercentageThreshold == nil || *r.PercentageThreshold == 0 {
		return 0, false
	}
	return *r.PercentageThreshold, true
}

// SpecificApprover returns the specific approver id and whether one is set.
func (r *ApprovalRule) SpecificApprover() (string, bool) {
	if r.SpecificApproverID == nil || *r.SpecificApproverID == "" {
		return "", false
	}
	return *r.SpecificApproverID, true
}

func (r *ApprovalRule) Validate() error {
	if n := utf8.RuneCountInString(r.Name); n < 2 || n > 100 {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(r.Description) > 500 {
		return ErrDescriptionTooLong
	}
	if !r.RuleType.IsValid() {
		return ErrInvalidType
	}
	if r.PercentageThreshold != nil {
		if p := *r.PercentageThreshold; p < 1 || p > 100 {
			return ErrThresholdRange
		}
	}
	if _, ok := r.Threshold(); r.RuleType.UsesPercentage() && !ok {
		return ErrThresholdRequired
	}
	if _, ok := r.SpecificApprover(); r.RuleType.UsesSpecific() && !ok {
		return ErrSpecificRequired
	}
	return nil
}
