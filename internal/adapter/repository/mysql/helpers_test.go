package mysql

import (
	"testing"
	"time"

	"expense-workflow/internal/domain/company"
	"expense-workflow/internal/domain/expense"
	"expense-workflow/internal/domain/rule"
	"expense-workflow/internal/domain/user"
	"expense-workflow/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with every table migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	// each :memory: connection is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&company.Company{}, &user.User{}, &rule.ApprovalRule{}, &expense.Expense{}, &expense.ApprovalEntry{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeExpense(companyID, employeeID string, seq ...string) *expense.Expense {
	return &expense.Expense{
		ExpenseID:        id.New(),
		CompanyID:        companyID,
		EmployeeID:       employeeID,
		Title:            "Client dinner",
		Category:         "meals",
		ExpenseDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.RequireFromString("120.50"),
		CurrencyCode:     "USD",
		ConvertedAmount:  decimal.RequireFromString("10030.41"),
		ConversionRate:   decimal.RequireFromString("83.24"),
		CompanyCurrency:  "INR",
		Status:           expense.StatusPending,
		ApproverSequence: seq,
	}
}
