package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/folio/internal/api"
	"github.com/vbonduro/folio/internal/session"
)

const (
	msgBadCredentials = "Incorrect e-mail or password."
	msgUnavailable    = "An error occurred. Please try again later."
)

type loginPage struct {
	Admin bool
	Email string
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w, http.StatusOK, loginPage{Admin: s.isAdmin(r)}, "pages/login.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	token, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		status, msg := loginFailure(err)
		s.logger.Warn("login failed", "status", api.StatusOf(err), "error", err)
		page := loginPage{Email: email, Error: msg}
		if err := s.renderPage(w, status, page, "pages/login.html"); err != nil {
			s.logger.Error("render page failed", "error", err)
		}
		return
	}

	// Drop any pre-login session rather than promoting it.
	if old := session.ID(r); old != "" {
		if err := s.sessions.ClearSession(r.Context(), old); err != nil {
			s.logger.Warn("clear previous session failed", "error", err)
		}
	}
	sid := session.Issue(w, s.opts.CookieSecure)
	if err := s.sessions.SetSession(r.Context(), sid, token); err != nil {
		s.logger.Error("store session failed", "error", err)
		page := loginPage{Email: email, Error: msgUnavailable}
		if err := s.renderPage(w, http.StatusInternalServerError, page, "pages/login.html"); err != nil {
			s.logger.Error("render page failed", "error", err)
		}
		return
	}
	s.logger.Info("admin logged in")
	redirect(w, r, "/")
}

// loginFailure maps a Login error to the status and message shown on the form.
func loginFailure(err error) (int, string) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return http.StatusUnauthorized, apiErr.Message
		}
		return http.StatusUnauthorized, msgBadCredentials
	}
	return http.StatusServiceUnavailable, msgUnavailable
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid := session.ID(r); sid != "" {
		if err := s.sessions.ClearSession(r.Context(), sid); err != nil {
			s.logger.Error("clear session failed", "error", err)
		}
	}
	redirect(w, r, "/")
}

// isAdmin reports whether the visitor's session flag is set. Storage errors
// are logged and treated as "not admin".
func (s *Server) isAdmin(r *http.Request) bool {
	ok, err := s.sessions.IsAdmin(r.Context(), session.ID(r))
	if err != nil {
		s.logger.Error("read session failed", "error", err)
		return false
	}
	return ok
}

// requireAdmin rejects requests whose session flag is not set with 403.
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAdmin(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

// token returns the stored bearer token, or "" when there is none; the
// backend rejects a missing token itself.
func (s *Server) token(r *http.Request) string {
	token, _, err := s.sessions.GetToken(r.Context(), session.ID(r))
	if err != nil {
		s.logger.Error("read token failed", "error", err)
		return ""
	}
	return token
}
