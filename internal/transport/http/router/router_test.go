package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spectral-labs/auth-api/internal/application/auth"
	"github.com/spectral-labs/auth-api/internal/infrastructure/memory"
	"github.com/spectral-labs/auth-api/internal/infrastructure/security"
	"github.com/spectral-labs/auth-api/internal/logger"
	"github.com/spectral-labs/auth-api/internal/transport/http/handlers"
	"github.com/spectral-labs/auth-api/internal/transport/http/middleware"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	logger.InitWithWriter(io.Discard)
	m.Run()
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	signer := security.NewJWTSigner("test-secret", "auth-api")
	svc := auth.NewService(
		memory.NewUserRepo(),
		security.NewBcryptHasher(bcrypt.MinCost),
		signer,
		memory.NewNoopPublisher(),
		auth.Config{TokenTTL: time.Hour},
	)

	h := New(Deps{
		Auth:          handlers.NewAuthHandler(svc, false),
		Health:        handlers.NewHealthHandler(nil),
		Authenticator: middleware.NewAuthenticator(signer),
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func authCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == security.AuthCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", security.AuthCookieName)
	return nil
}

func TestRegister_Created(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/auth/register",
		`{"email":"alice@example.com","password":"longenough1"}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	c := authCookie(t, resp)
	if !c.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if c.Value == "" {
		t.Error("cookie must carry the token")
	}

	raw, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(raw), c.Value) {
		t.Error("token leaked into response body")
	}

	var body struct {
		Data struct {
			User struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data.User.Email != "alice@example.com" || body.Data.User.Role != "user" {
		t.Fatalf("unexpected user: %+v", body.Data.User)
	}
	if body.Data.User.ID == "" {
		t.Fatal("user id missing")
	}
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	srv := newTestServer(t)

	post(t, srv, "/api/auth/register", `{"email":"dup@example.com","password":"longenough1"}`)
	resp := post(t, srv, "/api/auth/register", `{"email":"dup@example.com","password":"longenough1"}`)

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/auth/register", `{"email":"bad","password":"short"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	fields := map[string]bool{}
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	if !fields["email"] || !fields["password"] {
		t.Fatalf("want email and password errors, got %+v", body.Errors)
	}
}

func TestRegister_UnknownField_Rejected(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/auth/register",
		`{"email":"a@b.co","password":"longenough1","admin":true}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	srv := newTestServer(t)

	post(t, srv, "/api/auth/register", `{"email":"bob@example.com","password":"longenough1"}`)

	resp := post(t, srv, "/api/auth/login", `{"email":"bob@example.com","password":"longenough1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	authCookie(t, resp)
}

func TestLogin_WrongPassword_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	post(t, srv, "/api/auth/register", `{"email":"carol@example.com","password":"longenough1"}`)

	resp := post(t, srv, "/api/auth/login", `{"email":"carol@example.com","password":"wrongpassword"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLogin_UnknownEmail_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/auth/login", `{"email":"ghost@example.com","password":"longenough1"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestMe_WithCookie(t *testing.T) {
	srv := newTestServer(t)

	reg := post(t, srv, "/api/auth/register", `{"email":"dave@example.com","password":"longenough1"}`)
	c := authCookie(t, reg)

	req, _ := http.NewRequest("GET", srv.URL+"/api/auth/me", nil)
	req.AddCookie(c)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /me: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.User.Email != "dave@example.com" {
		t.Fatalf("email = %q", body.Data.User.Email)
	}
}

func TestMe_NoToken_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/auth/me")
	if err != nil {
		t.Fatalf("GET /me: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/auth/logout", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	c := authCookie(t, resp)
	if c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: value=%q maxAge=%d", c.Value, c.MaxAge)
	}
}

func TestAdminRoute_RBAC(t *testing.T) {
	srv := newTestServer(t)

	reg := post(t, srv, "/api/auth/register",
		`{"email":"admin@example.com","password":"longenough1","role":"admin"}`)
	adminCookie := authCookie(t, reg)

	reg = post(t, srv, "/api/auth/register",
		`{"email":"plain@example.com","password":"longenough1"}`)
	userCookie := authCookie(t, reg)

	var adminID string
	{
		req, _ := http.NewRequest("GET", srv.URL+"/api/auth/me", nil)
		req.AddCookie(adminCookie)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET /me: %v", err)
		}
		var body struct {
			Data struct {
				User struct {
					ID string `json:"id"`
				} `json:"user"`
			} `json:"data"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		adminID = body.Data.User.ID
	}

	get := func(c *http.Cookie) int {
		req, _ := http.NewRequest("GET", srv.URL+"/api/admin/users/"+adminID, nil)
		req.AddCookie(c)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET admin: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := get(adminCookie); code != http.StatusOK {
		t.Errorf("admin: status = %d", code)
	}
	if code := get(userCookie); code != http.StatusForbidden {
		t.Errorf("user: status = %d", code)
	}
}

func TestAdminRoute_UnknownUser_NotFound(t *testing.T) {
	srv := newTestServer(t)

	reg := post(t, srv, "/api/auth/register",
		`{"email":"root@example.com","password":"longenough1","role":"admin"}`)
	c := authCookie(t, reg)

	req, _ := http.NewRequest("GET", srv.URL+"/api/admin/users/no-such-id", nil)
	req.AddCookie(c)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET admin: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHealthAndIndex(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/api", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status = %d", path, resp.StatusCode)
		}
	}
}
