package expense

import (
	"strings"
	"time"
	"unicode/utf8"

	"expense-workflow/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = apperr.NotFound("expense not found")
	ErrEmployeeNotFound = apperr.NotFound("employee not found")
	ErrAlreadyResolved  = apperr.Conflict("expense already resolved")
	ErrNotPending       = apperr.Conflict("only pending expenses can be updated")
	ErrStaleState       = apperr.Conflict("expense changed concurrently, re-read and retry")
	ErrNotAuthorised    = apperr.Forbidden("not authorised to approve this expense")
	ErrNotOwner         = apperr.Forbidden("not authorised to update this expense")
	ErrNotEmployee      = apperr.Forbidden("only employees can submit expenses")
	ErrNoApprovers      = apperr.Validation("no approvers configured")
	ErrInvalidAmount    = apperr.Validation("amount must be greater than zero")
	ErrInvalidCurrency  = apperr.Validation("currency code must be 3 letters")
	ErrInvalidDecision  = apperr.Validation("decision must be approved or rejected")
	ErrInvalidTitle     = apperr.Validation("title must be 2-150 characters")
	ErrInvalidCategory  = apperr.Validation("category must be 2-100 characters")
	ErrDescriptionLong  = apperr.Validation("description must be at most 500 characters")
	ErrCommentTooLong   = apperr.Validation("comment must be at most 500 characters")
	ErrMissingDate      = apperr.Validation("expense date is required")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal returns true when no further transition may leave the status.
func (s Status) IsTerminal() bool { return s == StatusApproved || s == StatusRejected }

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) IsValid() bool { return d == DecisionApproved || d == DecisionRejected }

// Table: expenses
type Expense struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ExpenseID   string    `gorm:"column:expense_id;type:char(32);not null;uniqueIndex:ux_expenses_expense_id" json:"expense_id"`
	CompanyID   string    `gorm:"column:company_id;type:char(32);not null;index:idx_expenses_company_status" json:"company_id"`
	EmployeeID  string    `gorm:"column:employee_id;type:char(32);not null;index" json:"employee_id"`
	Title       string    `gorm:"column:title;size:150;not null" json:"title"`
	Description string    `gorm:"column:description;size:500" json:"description,omitempty"`
	Category    string    `gorm:"column:category;size:100;not null" json:"category"`
	ExpenseDate time.Time `gorm:"column:expense_date;type:date;not null" json:"expense_date"`
	ReceiptURL  *string   `gorm:"column:receipt_url;type:text" json:"receipt_url,omitempty"`

	// As submitted
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CurrencyCode string          `gorm:"column:currency_code;type:char(3);not null" json:"currency_code"`
	// Normalised into the company's home currency
	ConvertedAmount decimal.Decimal `gorm:"column:converted_amount;type:decimal(20,6);not null" json:"converted_amount"`
	ConversionRate  decimal.Decimal `gorm:"column:conversion_rate;type:decimal(20,10);not null" json:"conversion_rate"`
	CompanyCurrency string          `gorm:"column:company_currency;type:char(3);not null" json:"company_currency"`

	Status Status `gorm:"column:status;size:16;not null;index:idx_expenses_company_status" json:"status"`
	// Frozen at creation; never re-derived from the rule
	ApproverSequence []string `gorm:"column:approver_sequence;type:text;serializer:json" json:"approver_sequence"`
	CurrentStepIndex int      `gorm:"column:current_step_index;not null" json:"current_step_index"`
	ApprovalRuleID   *string  `gorm:"column:approval_rule_id;type:char(32)" json:"approval_rule_id,omitempty"`

	ApprovalHistory []ApprovalEntry `gorm:"foreignKey:ExpenseID;references:ID" json:"approval_history"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Expense) TableName() string { return "expenses" }

// CurrentApprover returns the identity expected to act next, if the expense is still awaiting one.
func (e *Expense) CurrentApprover() (string, bool) {
	if e.Status != StatusPending || e.CurrentStepIndex < 0 || e.CurrentStepIndex >= len(e.ApproverSequence) {
		return "", false
	}
	return e.ApproverSequence[e.CurrentStepIndex], true
}

// ValidateDetails checks the submitter-editable fields and upper-cases the currency code.
func (e *Expense) ValidateDetails() error {
	if n := utf8.RuneCountInString(e.Title); n < 2 || n > 150 {
		return ErrInvalidTitle
	}
	if n := utf8.RuneCountInString(e.Category); n < 2 || n > 100 {
		return ErrInvalidCategory
	}
	if utf8.RuneCountInString(e.Description) > 500 {
		return ErrDescriptionLong
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	code, ok := NormaliseCurrency(e.CurrencyCode)
	if !ok {
		return ErrInvalidCurrency
	}
	e.CurrencyCode = code
	if e.ExpenseDate.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// NormaliseCurrency upper-cases a three-letter currency code.
func NormaliseCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", false
		}
	}
	return code, true
}

// Table: approval_entries (append-only)
type ApprovalEntry struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// FK to expenses.id (numeric)
	ExpenseID  uint64    `gorm:"column:expense_id;not null;index" json:"-"`
	ApproverID string    `gorm:"column:approver_id;type:char(32);not null" json:"approver_id"`
	Decision   Decision  `gorm:"column:decision;size:16;not null" json:"decision"`
	Comment    *string   `gorm:"column:comment;size:500" json:"comment,omitempty"`
	Timestamp  time.Time `gorm:"column:decided_at;not null" json:"timestamp"`
}

func (ApprovalEntry) TableName() string { return "approval_entries" }

// Transition is the state an expense moves to after a decision.
type Transition struct {
	Status    Status
	StepIndex int
}
