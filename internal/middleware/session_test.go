package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/session"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func identityEcho(t *testing.T, want int64, wantOK bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.UserIDFromContext(r.Context())
		if ok != wantOK {
			t.Errorf("identity presence: got %v want %v", ok, wantOK)
		}
		if ok && id != want {
			t.Errorf("identity: got %d want %d", id, want)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSession_ValidCookie(t *testing.T) {
	mgr := session.NewManager(testSecret, time.Hour, nil)

	token, err := mgr.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec := httptest.NewRecorder()

	Session(mgr)(identityEcho(t, 42, true)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSession_MissingOrForgedCookie(t *testing.T) {
	mgr := session.NewManager(testSecret, time.Hour, nil)
	forger := session.NewManager([]byte("another-secret-another-secret-00"), time.Hour, nil)

	forged, err := forger.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"empty cookie", &http.Cookie{Name: session.CookieName, Value: ""}},
		{"forged cookie", &http.Cookie{Name: session.CookieName, Value: forged}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rec := httptest.NewRecorder()

			Session(mgr)(identityEcho(t, 0, false)).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("anonymous request must still reach the handler, got %d", rec.Code)
			}
		})
	}
}

func TestRequireUser_RedirectsAnonymous(t *testing.T) {
	handler := RequireUser("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler must not run for anonymous requests")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
}

func TestRequireUser_PassesAuthenticated(t *testing.T) {
	called := false
	handler := RequireUser("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("protected handler should run for authenticated requests")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
