package expense

import (
	"time"

	domain "expense-workflow/internal/domain/expense"

	"github.com/shopspring/decimal"
)

type CreateInput struct {
	CompanyID   string
	EmployeeID  string
	Title       string
	Description string
	Category    string
	Amount      decimal.Decimal
	// ISO 4217, any case
	CurrencyCode string
	ExpenseDate  time.Time
	ReceiptURL   *string
	// Optional explicit rule; falls back to the company's first active rule
	ApprovalRuleID *string
}

// UpdateInput is a partial patch; nil fields are left unchanged.
type UpdateInput struct {
	Title        *string
	Description  *string
	Category     *string
	Amount       *decimal.Decimal
	CurrencyCode *string
	ExpenseDate  *time.Time
	ReceiptURL   *string
}

type DecisionInput struct {
	CompanyID  string
	ExpenseID  string
	ApproverID string
	Decision   domain.Decision
	Comment    *string
}

type ApprovalEntryDTO struct {
	ApproverID string    `json:"approver_id"`
	Decision   string    `json:"decision"`
	Comment    *string   `json:"comment,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type ExpenseDTO struct {
	ExpenseID        string             `json:"expense_id"`
	CompanyID        string             `json:"company_id"`
	EmployeeID       string             `json:"employee_id"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	Category         string             `json:"category"`
	ExpenseDate      string             `json:"expense_date"`
	ReceiptURL       *string            `json:"receipt_url,omitempty"`
	Amount           decimal.Decimal    `json:"amount"`
	CurrencyCode     string             `json:"currency_code"`
	ConvertedAmount  decimal.Decimal    `json:"converted_amount"`
	ConversionRate   decimal.Decimal    `json:"conversion_rate"`
	CompanyCurrency  string             `json:"company_currency"`
	Status           string             `json:"status"`
	ApproverSequence []string           `json:"approver_sequence"`
	CurrentStepIndex int                `json:"current_step_index"`
	ApprovalRuleID   *string            `json:"approval_rule_id,omitempty"`
	ApprovalHistory  []ApprovalEntryDTO `json:"approval_history"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

const dateLayout = "2006-01-02"

func toDTO(e *domain.Expense) *ExpenseDTO {
	history := make([]ApprovalEntryDTO, 0, len(e.ApprovalHistory))
	for _, h := range e.ApprovalHistory {
		history = append(history, ApprovalEntryDTO{
			ApproverID: h.ApproverID,
			Decision:   string(h.Decision),
			Comment:    h.Comment,
			Timestamp:  h.Timestamp,
		})
	}
	seq := e.ApproverSequence
	if seq == nil {
		seq = []string{}
	}
	return &ExpenseDTO{
		ExpenseID:        e.ExpenseID,
		CompanyID:        e.CompanyID,
		EmployeeID:       e.EmployeeID,
		Title:            e.Title,
		Description:      e.Description,
		Category:         e.Category,
		ExpenseDate:      e.ExpenseDate.Format(dateLayout),
		ReceiptURL:       e.ReceiptURL,
		Amount:           e.Amount,
		CurrencyCode:     e.CurrencyCode,
		ConvertedAmount:  e.ConvertedAmount,
		ConversionRate:   e.ConversionRate,
		CompanyCurrency:  e.CompanyCurrency,
		Status:           string(e.Status),
		ApproverSequence: seq,
		CurrentStepIndex: e.CurrentStepIndex,
		ApprovalRuleID:   e.ApprovalRuleID,
		ApprovalHistory:  history,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toDTOs(list []domain.Expense) []ExpenseDTO {
	out := make([]ExpenseDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out
}
