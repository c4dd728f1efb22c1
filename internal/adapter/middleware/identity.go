package middleware

import (
	"errors"
	"net/http"
	"strings"

	"expense-workflow/internal/domain/user"
	"expense-workflow/pkg/id"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID = "Ax-User-Id"
	ctxUserKey   = "caller"
)

// Identity resolves Ax-User-Id to a stored user and puts it on the context.
func Identity(users user.Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderUserID})
			}
			if !id.Valid(uid) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid " + HeaderUserID})
			}
			u, err := users.GetByUserID(c.Request().Context(), uid)
			if errors.Is(err, user.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
			}
			if err != nil {
				return c.JSON(http.StatusBadGateway, map[string]string{"error": "user lookup failed"})
			}
			c.Set(ctxUserKey, u)
			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not listed. It must run after Identity.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := Caller(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}
			if !u.HasRole(roles...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "role not permitted"})
			}
			return next(c)
		}
	}
}

// Caller returns the user set by Identity, or nil.
func Caller(c echo.Context) *user.User {
	u, _ := c.Get(ctxUserKey).(*user.User)
	return u
}

// WithCaller stores u as the caller; handler tests use it to skip Identity.
func WithCaller(c echo.Context, u *user.User) { c.Set(ctxUserKey, u) }
