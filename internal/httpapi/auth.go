package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/EneyderGarcia/turnerov2/internal/models"
	"github.com/EneyderGarcia/turnerov2/internal/store"
)

type authContextKey struct{}

func AuthMiddleware(users store.UserStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		sessionID := sessionIDFromRequest(r)
		if sessionID == "" {
			writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}
		session, err := users.GetSession(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "invalid session")
				return
			}
			writeError(w, requestIDFromRequest(r), http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		if isAdminEndpoint(r) && session.Role != models.RoleAdmin {
			writeError(w, requestIDFromRequest(r), http.StatusForbidden, "access_denied", "admin role required")
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) (models.Session, bool) {
	value := ctx.Value(authContextKey{})
	if value == nil {
		return models.Session{}, false
	}
	session, ok := value.(models.Session)
	if !ok {
		return models.Session{}, false
	}
	return session, true
}

func sessionIDFromRequest(r *http.Request) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-Session-ID"))
}

func requestIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Request-ID"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// Public endpoints back the waiting-room display, which runs unattended.
func isPublicEndpoint(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics", "/api/board", "/api/board/latest":
		return true
	case "/api/login":
		return r.Method == http.MethodPost
	case "/api/tickets/next":
		return r.Method == http.MethodGet
	default:
		return r.Method == http.MethodOptions
	}
}

func isAdminEndpoint(r *http.Request) bool {
	switch {
	case r.URL.Path == "/api/system/reset":
		return true
	case r.URL.Path == "/api/users" || strings.HasPrefix(r.URL.Path, "/api/users/"):
		return true
	case r.URL.Path == "/api/desks/deleted":
		return true
	case r.URL.Path == "/api/desks":
		return r.Method == http.MethodPost
	case strings.HasPrefix(r.URL.Path, "/api/desks/"):
		if r.Method == http.MethodDelete {
			return true
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/toggle"),
			strings.HasSuffix(r.URL.Path, "/recover"),
			strings.HasSuffix(r.URL.Path, "/assign"):
			return true
		}
		return false
	default:
		return false
	}
}
