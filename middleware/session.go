package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Dosada05/ranked-hc/auth"
)

// SessionCookieName хранит идентификатор серверной сессии.
const SessionCookieName = auth.SessionFlagKey

// Session resolves the admin session of every request. A client without a
// known session id gets a fresh session seeded from its remember flag.
func Session(gate *auth.Gate, opts auth.CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookieName); err == nil {
				id = c.Value
			}

			flags := auth.NewCookieFlags(w, r, opts)
			sess := gate.Resume(id, flags)
			if sid := sess.ID(); sid != id {
				flags.SetFlag(SessionCookieName, sid)
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess, flags)))
		})
	}
}

// RequireAdmin отклоняет запрос, если сессия не в состоянии LoggedIn.
func RequireAdmin(authz interface {
	Authorize(*auth.Session) error
}) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.Authorize(SessionFromContext(r.Context())); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
