package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/who", func(c echo.Context) error { return c.String(http.StatusOK, OperatorFrom(c)) })
	return e
}

func TestOperatorSources(t *testing.T) {
	e := newEcho(Operator())

	if rec := serve(e, httptest.NewRequest(http.MethodGet, "/who", nil)); rec.Body.String() != DefaultOperator {
		t.Fatalf("expected default operator, got %q", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(OperatorHeader, "maria")
	req.AddCookie(&http.Cookie{Name: OperatorCookie, Value: "ignored"})
	if rec := serve(e, req); rec.Body.String() != "maria" {
		t.Fatalf("header should win, got %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: OperatorCookie, Value: "sam"})
	if rec := serve(e, req); rec.Body.String() != "sam" {
		t.Fatalf("expected cookie operator, got %q", rec.Body.String())
	}

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/who?operator=kim", nil))
	if rec.Body.String() != "kim" {
		t.Fatalf("expected query operator, got %q", rec.Body.String())
	}
	if ck := rec.Result().Cookies(); len(ck) != 1 || ck[0].Value != "kim" {
		t.Fatalf("expected operator cookie to be set, got %v", ck)
	}
}

func TestRequireOperator(t *testing.T) {
	e := newEcho(RequireOperator(true), Operator())
	if rec := serve(e, httptest.NewRequest(http.MethodGet, "/who", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(OperatorHeader, "maria")
	if rec := serve(e, req); rec.Code != http.StatusOK || rec.Body.String() != "maria" {
		t.Fatalf("expected maria, got %d %q", rec.Code, rec.Body.String())
	}

	open := newEcho(RequireOperator(false), Operator())
	if rec := serve(open, httptest.NewRequest(http.MethodGet, "/who", nil)); rec.Code != http.StatusOK {
		t.Fatalf("disabled gate should pass, got %d", rec.Code)
	}
}
