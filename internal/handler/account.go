package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/service"
	"github.com/coinboard/coinboard/internal/session"
)

// AccountHandler serves the registration, login, dashboard and logout pages.
type AccountHandler struct {
	accounts     *service.AccountService
	sessions     *session.Manager
	logger       *slog.Logger
	sessionTTL   time.Duration
	cookieSecure bool
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *service.AccountService, sessions *session.Manager, logger *slog.Logger, sessionTTL time.Duration, cookieSecure bool) *AccountHandler {
	return &AccountHandler{
		accounts:     accounts,
		sessions:     sessions,
		logger:       logger,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

// RegisterForm handles GET /register.
func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.logger, http.StatusOK, "register.html", pageData{Flash: popFlash(w, r)})
}

// Register handles POST /register.
// Duplicate username and duplicate email produce distinct notices and
// send the user back to the form; success redirects to the login page.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, err := h.accounts.Register(r.Context(), username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			setFlash(w, "Username, email and password are all required.")
		case errors.Is(err, service.ErrUsernameTaken):
			setFlash(w, "Username already taken.")
		case errors.Is(err, service.ErrEmailTaken):
			setFlash(w, "Email already registered.")
		default:
			h.logger.Error("register failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	setFlash(w, "Registration successful. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm handles GET /login.
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.logger, http.StatusOK, "login.html", pageData{Flash: popFlash(w, r)})
}

// Login handles POST /login.
// A failed attempt shows one generic notice regardless of whether the
// username exists, so the form cannot be used to enumerate accounts.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.accounts.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			setFlash(w, "Invalid username or password.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Error("login failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue session", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token, h.sessionTTL)
	h.logger.Info("user logged in", "user_id", user.ID)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Dashboard handles GET /dashboard. Runs behind middleware.RequireUser,
// so an identity is always present here.
func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.accounts.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownUser) {
			// Valid token for a vanished account: drop the session.
			h.setSessionCookie(w, "", -1)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Error("load dashboard", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	renderPage(w, h.logger, http.StatusOK, "dashboard.html", pageData{
		Flash:    popFlash(w, r),
		Username: user.Username,
	})
}

// Logout handles GET /logout. Revokes the token server-side when a
// revocation list is configured, then clears the cookie either way.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(r.Context(), cookie.Value); err != nil {
			// Cookie deletion below still ends the session for this client.
			h.logger.Error("revoke session", "error", err)
		}
	}

	h.setSessionCookie(w, "", -1)
	setFlash(w, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// setSessionCookie writes the session cookie. A negative ttl deletes it.
func (h *AccountHandler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
