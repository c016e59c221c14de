package httpapi

import (
	"net/http"
	"testing"
	"time"
)

func TestAdminDisabledWithoutCredentials(t *testing.T) {
	env := newTestServer(t, "", "")

	rr := postJSON(t, env.handler, "/api/admin/login", map[string]string{
		"username": "anything", "password": "anything",
	}, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("login status=%d, want admin API disabled", rr.Code)
	}

	rr = getPath(t, env.handler, "/api/admin/consultations", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("list status=%d, want admin API disabled", rr.Code)
	}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	env := newTestServer(t, "admin", "swordfish")

	cases := []struct{ username, password string }{
		{"admin", "wrong"},
		{"wrong", "swordfish"},
		{"", ""},
		{"admin", "swordfis"},
	}
	for _, tc := range cases {
		rr := postJSON(t, env.handler, "/api/admin/login", map[string]string{
			"username": tc.username, "password": tc.password,
		}, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("login %q/%q status=%d, want 401", tc.username, tc.password, rr.Code)
		}
	}
}

func TestAdminRejectsUnknownToken(t *testing.T) {
	env := newTestServer(t, "admin", "swordfish")
	rr := getPath(t, env.handler, "/api/admin/consultations", map[string]string{
		"Authorization": "Bearer deadbeef",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rr.Code)
	}
}

func TestSessionTokensExpire(t *testing.T) {
	auth := newAdminAuth("admin", "swordfish")
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return now }

	token, ok := auth.login("admin", "swordfish")
	if !ok {
		t.Fatal("login failed")
	}
	if !auth.validate(token) {
		t.Fatal("fresh token rejected")
	}

	now = now.Add(sessionTTL + time.Minute)
	if auth.validate(token) {
		t.Fatal("expired token accepted")
	}
	// Expired tokens are dropped, not just rejected.
	auth.mu.Lock()
	_, still := auth.sessions[token]
	auth.mu.Unlock()
	if still {
		t.Fatal("expired token still stored")
	}
}
