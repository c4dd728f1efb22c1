package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mw "expense-workflow/internal/adapter/middleware"
	mysqlrepo "expense-workflow/internal/adapter/repository/mysql"
	"expense-workflow/internal/currency"
	dbinfra "expense-workflow/internal/infrastructure/db"
	"expense-workflow/internal/usecase/company"
	"expense-workflow/internal/usecase/expense"
	"expense-workflow/internal/usecase/rule"
	ucUser "expense-workflow/internal/usecase/user"
	"expense-workflow/pkg/id"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type staticSource struct{}

func (staticSource) LatestRates(_ context.Context, base string) (map[string]decimal.Decimal, error) {
	if base == "USD" {
		return map[string]decimal.Decimal{"INR": decimal.RequireFromString("83.5")}, nil
	}
	return map[string]decimal.Decimal{}, nil
}

func (staticSource) CountryCurrencies(context.Context) (map[string]string, error) {
	return map[string]string{"IN": "INR"}, nil
}

type api struct {
	e  *echo.Echo
	mr *miniredis.Miniredis
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, dbinfra.Migrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repos := mysqlrepo.Repos(db)
	tx := mysqlrepo.NewGormUoW(db)
	rates := currency.NewRateCache(staticSource{}, nil, time.Hour, nil)

	e := echo.New()
	e.Validator = NewValidator()
	Register(e, Routes{
		Health:      NewHandler(sqlDB),
		Companies:   NewCompanyHandler(company.NewUsecase(repos.Companies, tx, rates, nil)),
		Users:       NewUserHandler(ucUser.NewUsecase(repos.Users, nil)),
		Expenses:    NewExpenseHandler(expense.NewUsecase(repos, tx, currency.NewConverter(rates), nil)),
		Rules:       NewRuleHandler(rule.NewUsecase(repos.Rules, nil)),
		Directory:   repos.Users,
		Idempotency: mw.Idempotency(rdb, time.Minute, nil),
	})
	return &api{e: e, mr: mr}
}

func (a *api) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set(mw.HeaderUserID, userID)
	}
	if method != http.MethodGet {
		req.Header.Set(mw.HeaderRequestID, id.New())
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// seed registers a company and returns admin, manager and employee ids.
func (a *api) seed(t *testing.T) (adminID, managerID, employeeID string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/companies", "", map[string]any{
		"name": "Acme", "country_code": "in", "admin_name": "Ada", "admin_email": "ada@acme.io",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[company.RegistrationDTO](t, rec)
	assert.Equal(t, "INR", reg.Company.CurrencyCode)
	adminID = reg.AdminID

	rec = a.do(t, http.MethodPost, "/users", adminID, map[string]any{"name": "Max", "email": "max@acme.io", "role": "manager"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	managerID = decode[ucUser.UserDTO](t, rec).UserID

	rec = a.do(t, http.MethodPost, "/users", adminID, map[string]any{
		"name": "Eve", "email": "eve@acme.io", "role": "employee", "manager_id": managerID, "is_manager_approver": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	employeeID = decode[ucUser.UserDTO](t, rec).UserID
	return adminID, managerID, employeeID
}

func expenseBody() map[string]any {
	return map[string]any{
		"title": "Taxi", "category": "travel", "amount": 10, "currency_code": "usd", "expense_date": "2026-10-01",
	}
}

func TestAPI_SubmitApproveFlow(t *testing.T) {
	a := newAPI(t)
	_, managerID, employeeID := a.seed(t)

	rec := a.do(t, http.MethodPost, "/expenses", employeeID, expenseBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[expense.ExpenseDTO](t, rec)
	assert.Equal(t, []string{managerID}, created.ApproverSequence)
	assert.True(t, created.ConvertedAmount.Equal(decimal.NewFromInt(835)), created.ConvertedAmount.String())
	assert.Equal(t, "USD", created.CurrencyCode)
	assert.Equal(t, "INR", created.CompanyCurrency)

	rec = a.do(t, http.MethodGet, "/expenses/pending", managerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]expense.ExpenseDTO](t, rec), 1)

	path := "/expenses/" + created.ExpenseID + "/approval"
	rec = a.do(t, http.MethodPost, path, managerID, map[string]any{"decision": "approved", "comment": "ok"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decided := decode[expense.ExpenseDTO](t, rec)
	assert.Equal(t, "approved", decided.Status)
	require.Len(t, decided.ApprovalHistory, 1)

	rec = a.do(t, http.MethodPost, path, managerID, map[string]any{"decision": "rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodGet, "/expenses/pending", managerID, nil)
	assert.Empty(t, decode[[]expense.ExpenseDTO](t, rec))
}

func TestAPI_IdempotentSubmit(t *testing.T) {
	a := newAPI(t)
	_, _, employeeID := a.seed(t)

	raw, _ := json.Marshal(expenseBody())
	reqID := id.New()
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(mw.HeaderUserID, employeeID)
		req.Header.Set(mw.HeaderRequestID, reqID)
		rec := httptest.NewRecorder()
		a.e.ServeHTTP(rec, req)
		return rec
	}
	first, second := send(), send()
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec := a.do(t, http.MethodGet, "/expenses/mine", employeeID, nil)
	assert.Len(t, decode[[]expense.ExpenseDTO](t, rec), 1)
}

func TestAPI_AccessControl(t *testing.T) {
	a := newAPI(t)
	adminID, managerID, employeeID := a.seed(t)

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/expenses/mine", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/expenses/mine", id.New(), nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/approval-rules", employeeID, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/expenses", managerID, expenseBody()).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/expenses", employeeID, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/expenses", adminID, nil).Code)

	rec := a.do(t, http.MethodPost, "/expenses", employeeID, expenseBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	exp := decode[expense.ExpenseDTO](t, rec)

	// employees cannot approve, even when listed
	rec = a.do(t, http.MethodPost, "/expenses/"+exp.ExpenseID+"/approval", employeeID, map[string]any{"decision": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	// admin is not in the sequence
	rec = a.do(t, http.MethodPost, "/expenses/"+exp.ExpenseID+"/approval", adminID, map[string]any{"decision": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not authorised to approve this expense", decode[ErrorResponse](t, rec).Error)

	// another employee cannot see it
	rec = a.do(t, http.MethodPost, "/users", adminID, map[string]any{"name": "Bob", "email": "bob@acme.io", "role": "employee"})
	require.Equal(t, http.StatusCreated, rec.Code)
	bob := decode[ucUser.UserDTO](t, rec).UserID
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/expenses/"+exp.ExpenseID, bob, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/expenses/"+exp.ExpenseID, employeeID, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPatch, "/expenses/"+exp.ExpenseID, bob, map[string]any{"title": "Mine"}).Code)
}

func TestAPI_RequestErrors(t *testing.T) {
	a := newAPI(t)
	adminID, _, employeeID := a.seed(t)

	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{"title":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(mw.HeaderUserID, employeeID)
	req.Header.Set(mw.HeaderRequestID, id.New())
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := expenseBody()
	body["amount"] = -1
	body["currency_code"] = "dollars"
	rec = a.do(t, http.MethodPost, "/expenses", employeeID, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	er := decode[ErrorResponse](t, rec)
	assert.True(t, containsFieldMsg(er.Details, "amount", "greater than 0"), er.Details)
	assert.True(t, containsFieldMsg(er.Details, "currency_code", "3-letter"), er.Details)

	rec = a.do(t, http.MethodPost, "/users", adminID, map[string]any{"name": "Dup", "email": "ADA@acme.io", "role": "employee"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, "/companies", "", map[string]any{
		"name": "Nowhere", "country_code": "zz", "admin_name": "N", "admin_email": "n@nowhere.io",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPI_RuleLifecycle(t *testing.T) {
	a := newAPI(t)
	adminID, managerID, employeeID := a.seed(t)

	rec := a.do(t, http.MethodPost, "/approval-rules", adminID, map[string]any{
		"name": "Half", "rule_type": "percentage", "approver_ids": []string{managerID, adminID}, "percentage_threshold": 50,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	r := decode[rule.RuleDTO](t, rec)
	assert.True(t, r.IsActive)

	rec = a.do(t, http.MethodPost, "/approval-rules", adminID, map[string]any{"name": "Bad", "rule_type": "hybrid"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodPatch, "/approval-rules/"+r.RuleID, adminID, map[string]any{"percentage_threshold": 100})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 100, *decode[rule.RuleDTO](t, rec).PercentageThreshold)

	// the active rule drives new submissions: manager first, then the rule's approvers
	rec = a.do(t, http.MethodPost, "/expenses", employeeID, expenseBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	exp := decode[expense.ExpenseDTO](t, rec)
	assert.Equal(t, []string{managerID, adminID}, exp.ApproverSequence)
	require.NotNil(t, exp.ApprovalRuleID)
	assert.Equal(t, r.RuleID, *exp.ApprovalRuleID)

	rec = a.do(t, http.MethodGet, "/approval-rules", adminID, nil)
	assert.Len(t, decode[[]rule.RuleDTO](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/approval-rules/"+r.RuleID, adminID, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/approval-rules/"+r.RuleID, adminID, nil).Code)
}

func TestAPI_EditPending(t *testing.T) {
	a := newAPI(t)
	_, _, employeeID := a.seed(t)

	rec := a.do(t, http.MethodPost, "/expenses", employeeID, expenseBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	exp := decode[expense.ExpenseDTO](t, rec)

	rec = a.do(t, http.MethodPatch, "/expenses/"+exp.ExpenseID, employeeID, map[string]any{"amount": "2", "expense_date": "2026-10-02"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[expense.ExpenseDTO](t, rec)
	assert.True(t, got.ConvertedAmount.Equal(decimal.NewFromInt(167)), got.ConvertedAmount.String())
	assert.Equal(t, "2026-10-02", got.ExpenseDate)
	assert.Equal(t, "Taxi", got.Title)
}
