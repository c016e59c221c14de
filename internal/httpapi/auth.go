package httpapi

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

const sessionTTL = 12 * time.Hour

// adminAuth guards the admin endpoints. Credentials come from configuration;
// with none configured, every admin request is rejected.
type adminAuth struct {
	username []byte
	password []byte

	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func newAdminAuth(username, password string) *adminAuth {
	a := &adminAuth{
		sessions: map[string]time.Time{},
		now:      time.Now,
	}
	if username != "" && password != "" {
		// Compare digests so attempt length reveals nothing.
		u := sha256.Sum256([]byte(username))
		p := sha256.Sum256([]byte(password))
		a.username = u[:]
		a.password = p[:]
	}
	return a
}

func (a *adminAuth) enabled() bool {
	return len(a.username) > 0
}

func (a *adminAuth) login(username, password string) (string, bool) {
	if !a.enabled() {
		return "", false
	}
	u := sha256.Sum256([]byte(username))
	p := sha256.Sum256([]byte(password))
	userOK := subtle.ConstantTimeCompare(a.username, u[:])
	passOK := subtle.ConstantTimeCompare(a.password, p[:])
	if userOK&passOK != 1 {
		return "", false
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", false
	}
	token := hex.EncodeToString(buf)

	a.mu.Lock()
	a.sessions[token] = a.now().Add(sessionTTL)
	a.mu.Unlock()
	return token, true
}

func (a *adminAuth) validate(token string) bool {
	if token == "" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	expires, ok := a.sessions[token]
	if !ok {
		return false
	}
	if a.now().After(expires) {
		delete(a.sessions, token)
		return false
	}
	return true
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if !s.auth.enabled() {
		writeError(w, http.StatusNotFound, "admin API is not configured")
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, ok := s.auth.login(req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.enabled() {
			writeError(w, http.StatusNotFound, "admin API is not configured")
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !s.auth.validate(strings.TrimSpace(token)) {
			writeError(w, http.StatusUnauthorized, "missing or expired session token")
			return
		}
		next(w, r)
	}
}
