package http

import (
	"net/http"

	"expense-workflow/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

// statusOf maps an error kind to its HTTP status; unknown errors are 500.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindExternalService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	status := statusOf(err)
	msg := apperr.Message(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "internal error"
	}
	return c.JSON(status, ErrorResponse{Error: msg})
}

func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationError(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

// bindAndValidate decodes the body into req and runs struct validation,
// writing the 400/422 response itself. ok is false when a response was written.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, bindError(c)
	}
	if err := c.Validate(req); err != nil {
		return false, validationError(c, err)
	}
	return true, nil
}
