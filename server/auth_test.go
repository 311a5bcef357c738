// ABOUTME: Tests for the bearer token auth middleware and login handler.
// ABOUTME: Covers header auth, cookie auth, exempt paths, and 401 shapes.
package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func authedServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	ts := httptest.NewServer(AuthMiddleware(token)(mux))
	t.Cleanup(ts.Close)
	return ts
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	ts := authedServer(t, "sekrit")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/specs", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	ts := authedServer(t, "sekrit")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/specs", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q, want JSON", ct)
	}
}

func TestAuthMiddlewareCookie(t *testing.T) {
	ts := authedServer(t, "sekrit")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/specs", nil)
	req.AddCookie(&http.Cookie{Name: "storyboard_token", Value: "sekrit"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthMiddlewareExemptPaths(t *testing.T) {
	ts := authedServer(t, "sekrit")

	for _, path := range []string{"/health", "/login", "/static/app.css"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestAuthMiddlewareRedirectsBrowsers(t *testing.T) {
	ts := authedServer(t, "sekrit")
	client := &http.Client{CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/specs/abc", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q", loc)
	}
}

func TestLoginHandlerSetsCookie(t *testing.T) {
	handler := LoginHandler("sekrit")

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/login?token=sekrit", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "storyboard_token" || cookies[0].Value != "sekrit" {
		t.Errorf("cookies = %+v", cookies)
	}

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/login?token=wrong", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", rec.Code)
	}
}
