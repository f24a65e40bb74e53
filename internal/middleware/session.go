package middleware

import (
	"net/http"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/session"
)

// Session resolves the session cookie and threads the authenticated user
// ID through the request context. Requests without a valid session pass
// through anonymously; deciding what anonymity means is left to the
// handler or to RequireUser.
func Session(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err == nil && cookie.Value != "" {
				if userID, ok := mgr.Resolve(r.Context(), cookie.Value); ok {
					r = r.WithContext(auth.ContextWithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser gates protected views: anonymous requests are redirected to
// the login page instead of rendering. Must run after Session.
func RequireUser(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
