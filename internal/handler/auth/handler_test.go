package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/aseed/a-seed/backend/internal/model/user"
	authservice "github.com/aseed/a-seed/backend/internal/service/auth"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()

	users, err := user.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	handler := New(users, authservice.NewManager("test-secret"))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body map[string]string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRegisterThenLogin(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/register", map[string]string{
		"username": "alice", "displayName": "Alice", "password": "pw",
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	resp = postJSON(t, r, "/login", map[string]string{
		"username": "alice", "password": "pw",
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.Code)
	}

	var body struct {
		OK          bool   `json:"ok"`
		DisplayName string `json:"displayName"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	if !body.OK || body.DisplayName != "Alice" {
		t.Fatalf("unexpected login body: %+v", body)
	}
	if len(resp.Result().Cookies()) == 0 {
		t.Fatal("expected a session cookie on login")
	}
}

func TestRegisterMissingFields(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/register", map[string]string{
		"username": "alice", "password": "pw",
	}, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := setupRouter(t)

	body := map[string]string{"username": "alice", "displayName": "Alice", "password": "pw"}
	if resp := postJSON(t, r, "/register", body, nil); resp.Code != http.StatusOK {
		t.Fatalf("first register: expected 200, got %d", resp.Code)
	}
	if resp := postJSON(t, r, "/register", body, nil); resp.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", resp.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := setupRouter(t)

	postJSON(t, r, "/register", map[string]string{
		"username": "alice", "displayName": "Alice", "password": "pw",
	}, nil)

	resp := postJSON(t, r, "/login", map[string]string{
		"username": "alice", "password": "nope",
	}, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestSessionCheckReflectsCookie(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/session-check", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if got := resp.Body.String(); !bytes.Contains([]byte(got), []byte(`"logged_in":false`)) {
		t.Fatalf("expected logged_in=false, got %s", got)
	}

	postJSON(t, r, "/register", map[string]string{
		"username": "alice", "displayName": "Alice", "password": "pw",
	}, nil)
	login := postJSON(t, r, "/login", map[string]string{
		"username": "alice", "password": "pw",
	}, nil)

	req = httptest.NewRequest(http.MethodGet, "/session-check", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if got := resp.Body.String(); !bytes.Contains([]byte(got), []byte(`"logged_in":true`)) {
		t.Fatalf("expected logged_in=true, got %s", got)
	}
}
