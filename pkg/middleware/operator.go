package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	OperatorKey     = "operator"
	OperatorHeader  = "X-Operator"
	OperatorCookie  = "OPERATOR"
	DefaultOperator = "operator"
)

func lookupOperator(c echo.Context) string {
	name := strings.TrimSpace(c.Request().Header.Get(OperatorHeader))
	if name == "" {
		if ck, err := c.Cookie(OperatorCookie); err == nil {
			name = strings.TrimSpace(ck.Value)
		}
	}
	return name
}

// Operator tags the request with who is editing, for the deployment log.
// A ?operator= query parameter is remembered in a cookie. Anonymous requests
// fall back to DefaultOperator.
func Operator() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name := lookupOperator(c)
			if name == "" {
				if q := strings.TrimSpace(c.QueryParam("operator")); q != "" {
					c.SetCookie(&http.Cookie{Name: OperatorCookie, Value: q, Path: "/"})
					name = q
				}
			}
			if name == "" {
				name = DefaultOperator
			}
			c.Set(OperatorKey, name)
			return next(c)
		}
	}
}

// RequireOperator rejects requests that carry no operator header or cookie.
// When enabled is false it passes through and Operator supplies a default.
func RequireOperator(enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}
			name := lookupOperator(c)
			if name == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "operator required: set the X-Operator header"})
			}
			c.Set(OperatorKey, name)
			return next(c)
		}
	}
}

// OperatorFrom returns the name set by Operator or RequireOperator.
func OperatorFrom(c echo.Context) string {
	if v, ok := c.Get(OperatorKey).(string); ok {
		return v
	}
	return ""
}
