package http

import (
	"net/http"

	mw "expense-workflow/internal/adapter/middleware"
	domain "expense-workflow/internal/domain/rule"
	"expense-workflow/internal/usecase/rule"

	"github.com/labstack/echo/v4"
)

type RuleHandler struct{ uc *rule.Usecase }

func NewRuleHandler(uc *rule.Usecase) *RuleHandler { return &RuleHandler{uc: uc} }

type createRuleReq struct {
	Name                string   `json:"name"                 validate:"required,min=2,max=100"`
	Description         string   `json:"description"          validate:"max=500"`
	RuleType            string   `json:"rule_type"            validate:"required,oneof=sequential percentage specific hybrid"`
	ApproverIDs         []string `json:"approver_ids"         validate:"dive,hex32"`
	PercentageThreshold *int     `json:"percentage_threshold" validate:"omitempty,gte=1,lte=100"`
	SpecificApproverID  *string  `json:"specific_approver_id" validate:"omitempty,hex32"`
	Order               []string `json:"order"                validate:"dive,hex32"`
	IsActive            *bool    `json:"is_active"`
}

type updateRuleReq struct {
	Name                *string   `json:"name"                 validate:"omitempty,min=2,max=100"`
	Description         *string   `json:"description"          validate:"omitempty,max=500"`
	RuleType            *string   `json:"rule_type"            validate:"omitempty,oneof=sequential percentage specific hybrid"`
	ApproverIDs         *[]string `json:"approver_ids"         validate:"omitempty,dive,hex32"`
	PercentageThreshold *int      `json:"percentage_threshold" validate:"omitempty,gte=1,lte=100"`
	SpecificApproverID  *string   `json:"specific_approver_id" validate:"omitempty,hex32"`
	Order               *[]string `json:"order"                validate:"omitempty,dive,hex32"`
	IsActive            *bool     `json:"is_active"`
}

func (h *RuleHandler) Create(c echo.Context) error {
	var req createRuleReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), mw.Caller(c).CompanyID, rule.CreateInput{
		Name:                req.Name,
		Description:         req.Description,
		RuleType:            domain.Type(req.RuleType),
		ApproverIDs:         req.ApproverIDs,
		PercentageThreshold: req.PercentageThreshold,
		SpecificApproverID:  req.SpecificApproverID,
		Order:               req.Order,
		IsActive:            req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RuleHandler) List(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context(), mw.Caller(c).CompanyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RuleHandler) Update(c echo.Context) error {
	var req updateRuleReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := rule.UpdateInput{
		Name:                req.Name,
		Description:         req.Description,
		ApproverIDs:         req.ApproverIDs,
		PercentageThreshold: req.PercentageThreshold,
		SpecificApproverID:  req.SpecificApproverID,
		Order:               req.Order,
		IsActive:            req.IsActive,
	}
	if req.RuleType != nil {
		t := domain.Type(*req.RuleType)
		in.RuleType = &t
	}
	dto, err := h.uc.Update(c.Request().Context(), mw.Caller(c).CompanyID, c.Param("rule_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RuleHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), mw.Caller(c).CompanyID, c.Param("rule_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
