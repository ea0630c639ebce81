package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aseed/a-seed/backend/internal/service/auth"
)

// signedRequest returns a request carrying the cookies written by fn.
func signedRequest(t *testing.T, mgr *auth.Manager, fn func(w http.ResponseWriter, r *http.Request)) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodPost, "/", nil)
	fn(rec, seed)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSignInRoundTrip(t *testing.T) {
	mgr := auth.NewManager("test-secret")

	req := signedRequest(t, mgr, func(w http.ResponseWriter, r *http.Request) {
		if err := mgr.SignIn(w, r, "alice", "Alice"); err != nil {
			t.Fatalf("SignIn err: %v", err)
		}
	})

	id := mgr.Identity(req)
	if id.UserID != "alice" || id.DisplayName != "Alice" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.Admin {
		t.Fatal("login must not grant admin")
	}
}

func TestAnonymousWithoutCookie(t *testing.T) {
	mgr := auth.NewManager("test-secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if id := mgr.Identity(req); id.UserID != "" || id.Admin {
		t.Fatalf("expected anonymous identity, got %+v", id)
	}
}

func TestTamperedCookieReadsAnonymous(t *testing.T) {
	mgr := auth.NewManager("secret-one")
	other := auth.NewManager("secret-two")

	req := signedRequest(t, other, func(w http.ResponseWriter, r *http.Request) {
		if err := other.SignIn(w, r, "mallory", "Mallory"); err != nil {
			t.Fatalf("SignIn err: %v", err)
		}
	})

	if id := mgr.Identity(req); id.UserID != "" {
		t.Fatalf("cookie signed with a different secret must read anonymous, got %+v", id)
	}
}

func TestAdminFlag(t *testing.T) {
	mgr := auth.NewManager("test-secret")

	req := signedRequest(t, mgr, func(w http.ResponseWriter, r *http.Request) {
		if err := mgr.SetAdmin(w, r, true); err != nil {
			t.Fatalf("SetAdmin err: %v", err)
		}
	})

	if id := mgr.Identity(req); !id.Admin {
		t.Fatalf("expected admin identity, got %+v", id)
	}
}
