package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/desk-booking/internal/utils"
)

const testSecret = "unit-test-secret"

func doAuthed(t *testing.T, header string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "ada@example.com", "EMPLOYEE", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := echo.New()
	var gotID uint64
	var gotEmail, gotRole string
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		gotID, _ = UserID(c)
		gotEmail = Email(c)
		gotRole = Role(c)
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 7 || gotEmail != "ada@example.com" || gotRole != "EMPLOYEE" {
		t.Errorf("claims = (%d, %q, %q), want (7, ada@example.com, EMPLOYEE)", gotID, gotEmail, gotRole)
	}
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	other, err := utils.NewAccessToken("other-secret", 7, "a@b.c", "EMPLOYEE", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + other.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthed(t, tt.header, JWTAuth(testSecret))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	admin, err := utils.NewAccessToken(testSecret, 1, "root@example.com", "ADMIN", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	employee, err := utils.NewAccessToken(testSecret, 2, "emp@example.com", "EMPLOYEE", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	adminOnly := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole("ADMIN")}

	if rec := doAuthed(t, "Bearer "+admin.Token, adminOnly...); rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
	if rec := doAuthed(t, "Bearer "+employee.Token, adminOnly...); rec.Code != http.StatusForbidden {
		t.Errorf("employee status = %d, want 403", rec.Code)
	}
}

func TestUserIDRepresentations(t *testing.T) {
	e := echo.New()
	tests := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 from json", float64(9), 9, true},
		{"uint64", uint64(9), 9, true},
		{"int", 9, 9, true},
		{"string digits", "9", 9, true},
		{"string junk", "nine", 0, false},
		{"absent", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			got, ok := UserID(c)
			if got != tt.want || ok != tt.ok {
				t.Errorf("UserID = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
