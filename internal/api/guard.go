package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
)

// LoginPath is where unauthenticated requests are sent
const LoginPath = "/login"

// Paths reachable without a token. Everything else needs one.
var (
	publicPaths    = []string{LoginPath, "/healthz"}
	publicPrefixes = []string{"/avatars/"}
)

// IsPublic reports whether path is served without authentication
func IsPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// guard lets public paths through and redirects every other request that
// lacks a valid bearer token to the login page. Verified requests carry the
// token's subject as the signed-in user.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok && r.URL.Path == wsPath {
			// Browsers cannot set headers on a websocket handshake
			token, ok = r.URL.Query().Get("access_token"), r.URL.Query().Has("access_token")
		}
		if !ok {
			redirectToLogin(w, r)
			return
		}

		owner, err := s.issuer.Verify(token)
		if err != nil {
			slog.Debug("rejected token", "path", r.URL.Path, "error", err)
			redirectToLogin(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), owner)))
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	target := LoginPath + "?" + url.Values{"next": {next}}.Encode()
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleLogin answers the redirect target. Tokens are minted out of band
// with `workboard token`, so the page only explains how to sign in.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error": auth.ErrNotAuthenticated.Error(),
		"code":  CodeNotAuthenticated,
		"hint":  "send Authorization: Bearer <token>; create one with `workboard token`",
		"next":  r.URL.Query().Get("next"),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
