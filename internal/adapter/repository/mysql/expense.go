package mysql

import (
	"context"
	"time"

	"expense-workflow/internal/domain/expense"

	"gorm.io/gorm"
)

type ExpenseRepository struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository { return &ExpenseRepository{db: db} }

func withHistory(db *gorm.DB) *gorm.DB {
	return db.Preload("ApprovalHistory", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	return translate(r.db.WithContext(ctx).Create(e).Error, expense.ErrNotFound)
}

func (r *ExpenseRepository) GetByExpenseID(ctx context.Context, expenseID string) (*expense.Expense, error) {
	var out expense.Expense
	err := withHistory(r.db.WithContext(ctx)).Where("expense_id = ?", expenseID).First(&out).Error
	if err != nil {
		return nil, translate(err, expense.ErrNotFound)
	}
	return &out, nil
}

func (r *ExpenseRepository) list(ctx context.Context, query string, args ...any) ([]expense.Expense, error) {
	var out []expense.Expense
	err := withHistory(r.db.WithContext(ctx)).Where(query, args...).Order("id DESC").Find(&out).Error
	return out, translate(err, expense.ErrNotFound)
}

func (r *ExpenseRepository) ListByCompany(ctx context.Context, companyID string) ([]expense.Expense, error) {
	return r.list(ctx, "company_id = ?", companyID)
}

func (r *ExpenseRepository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]expense.Expense, error) {
	return r.list(ctx, "company_id = ? AND employee_id = ?", companyID, employeeID)
}

func (r *ExpenseRepository) ListPendingByCompany(ctx context.Context, companyID string) ([]expense.Expense, error) {
	return r.list(ctx, "company_id = ? AND status = ?", companyID, expense.StatusPending)
}

func (r *ExpenseRepository) UpdateDetailsIfPending(ctx context.Context, e *expense.Expense) error {
	res := r.db.WithContext(ctx).Model(&expense.Expense{}).
		Where("id = ? AND status = ?", e.ID, expense.StatusPending).
		Updates(map[string]any{
			"title":            e.Title,
			"description":      e.Description,
			"category":         e.Category,
			"expense_date":     e.ExpenseDate,
			"receipt_url":      e.ReceiptURL,
			"amount":           e.Amount,
			"currency_code":    e.CurrencyCode,
			"converted_amount": e.ConvertedAmount,
			"conversion_rate":  e.ConversionRate,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error, expense.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return expense.ErrStaleState
	}
	return nil
}

func (r *ExpenseRepository) TransitionIfCurrent(ctx context.Context, expenseNumericID uint64, expectedStep int, to expense.Transition) error {
	res := r.db.WithContext(ctx).Model(&expense.Expense{}).
		Where("id = ? AND status = ? AND current_step_index = ?", expenseNumericID, expense.StatusPending, expectedStep).
		Updates(map[string]any{
			"status":             to.Status,
			"current_step_index": to.StepIndex,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error, expense.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return expense.ErrStaleState
	}
	return nil
}

func (r *ExpenseRepository) AppendEntry(ctx context.Context, entry *expense.ApprovalEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, expense.ErrNotFound)
}
