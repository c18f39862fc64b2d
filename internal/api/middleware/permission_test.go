package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeResolver struct {
	granted map[string]bool
	err     error
	queries []string
}

func (r *fakeResolver) HasPermission(_ context.Context, userID, systemName string) (bool, error) {
	r.queries = append(r.queries, userID+"/"+systemName)
	if r.err != nil {
		return false, r.err
	}
	return r.granted[userID+"/"+systemName], nil
}

func (r *fakeResolver) Invalidate(context.Context, string) {}
func (r *fakeResolver) InvalidateAll(context.Context)      {}

func permissionContext(e *echo.Echo, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(CtxUserID, userID)
	}
	return c, rec
}

func TestRequirePermission_Granted(t *testing.T) {
	e := echo.New()
	resolver := &fakeResolver{granted: map[string]bool{"user-1/users.manage": true}}
	c, rec := permissionContext(e, "user-1")

	called := false
	handler := RequirePermission(resolver, "users.manage")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resolver.queries) != 1 || resolver.queries[0] != "user-1/users.manage" {
		t.Fatalf("expected one resolution, got %v", resolver.queries)
	}
}

func TestRequirePermission_Denied(t *testing.T) {
	e := echo.New()
	resolver := &fakeResolver{granted: map[string]bool{}}
	c, rec := permissionContext(e, "user-1")

	handler := RequirePermission(resolver, "users.manage")(func(c echo.Context) error {
		t.Fatalf("next should not be called")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequirePermission_NoIdentity(t *testing.T) {
	e := echo.New()
	resolver := &fakeResolver{}
	c, _ := permissionContext(e, "")

	err := RequirePermission(resolver, "users.manage")(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
	if len(resolver.queries) != 0 {
		t.Fatalf("resolver should not be consulted without identity")
	}
}

func TestRequirePermission_ResolverError(t *testing.T) {
	e := echo.New()
	resolver := &fakeResolver{err: context.DeadlineExceeded}
	c, _ := permissionContext(e, "user-1")

	err := RequirePermission(resolver, "users.manage")(func(c echo.Context) error { return nil })(c)
	if err == nil {
		t.Fatalf("expected resolver error to propagate")
	}
}
