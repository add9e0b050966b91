package access

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

type fakeStatuses struct {
	status *model.UserStatus
	err    error
	calls  int
	token  string
}

func (f *fakeStatuses) UserStatus(_ context.Context, s model.Session) (*model.UserStatus, error) {
	f.calls++
	f.token = s.Token
	return f.status, f.err
}

func testToken(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." + enc([]byte(payload)) + ".sig"
}

func serve(t *testing.T, g *Guard, req *http.Request) (*httptest.ResponseRecorder, *model.Session) {
	t.Helper()
	var seen *model.Session
	h := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFrom(r.Context())
		seen = &s
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestGuardRedirectsWithoutToken(t *testing.T) {
	statuses := &fakeStatuses{}
	g := NewGuard(statuses, zaptest.NewLogger(t))

	rec, _ := serve(t, g, httptest.NewRequest(http.MethodGet, "/student/dashboard", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if statuses.calls != 0 {
		t.Fatal("status must not be fetched without a token")
	}
}

func TestGuardFailsClosedOnUpstreamError(t *testing.T) {
	statuses := &fakeStatuses{err: errors.New("connection refused")}
	g := NewGuard(statuses, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: testToken(`{"user_id":"u1"}`)})

	rec, _ := serve(t, g, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuardSetsImplicitRole(t *testing.T) {
	statuses := &fakeStatuses{status: &model.UserStatus{
		Status: model.AccountActive,
		Roles:  []model.Role{model.RoleStudent},
	}}
	g := NewGuard(statuses, zaptest.NewLogger(t))

	token := testToken(`{"user_id":"u1"}`)
	req := httptest.NewRequest(http.MethodGet, "/student/slot-booking", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, seen := serve(t, g, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if statuses.token != token {
		t.Fatal("status must be fetched with the request token")
	}
	if seen == nil || seen.SelectedRole != model.RoleStudent || seen.UserID != "u1" {
		t.Fatalf("unexpected session %+v", seen)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SelectedRoleCookie && c.Value == string(model.RoleStudent) && c.Path == "/" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected selectedRole cookie")
	}
}

func TestGuardMultiRoleRedirect(t *testing.T) {
	statuses := &fakeStatuses{status: &model.UserStatus{
		Status: model.AccountActive,
		Roles:  []model.Role{model.RoleMentor, model.RoleStudent},
	}}
	g := NewGuard(statuses, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: testToken(`{"sub":"u2"}`)})
	req.AddCookie(&http.Cookie{Name: SelectedRoleCookie, Value: "MENTOR"})

	rec, _ := serve(t, g, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/mentor/dashboard" {
		t.Fatalf("expected redirect to mentor dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireCredential(t *testing.T) {
	h := RequireCredential(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r.Context()); !ok {
			t.Error("session missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/slots", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/slots", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "opaque"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserIDFromToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{"user_id claim", testToken(`{"user_id":"abc","sub":"zzz"}`), "abc", false},
		{"sub fallback", testToken(`{"sub":"zzz"}`), "zzz", false},
		{"no id", testToken(`{"role":"x"}`), "", true},
		{"two parts", "a.b", "", true},
		{"bad payload", "a.!!!.c", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserIDFromToken(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Fatalf("expected ErrInvalidToken, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("expected %q, got %q (%v)", tt.want, got, err)
			}
		})
	}
}
