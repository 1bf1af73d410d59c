package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
)

const oauthStateCookieName = "oauth_state"

type authPageData struct {
	Error        string
	GoogleSignIn bool
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", authPageData{GoogleSignIn: s.google != nil})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	user, err := s.authSvc.Login(r.Context(), email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, r, "login.html", authPageData{
			Error:        "Invalid email or password.",
			GoogleSignIn: s.google != nil,
		})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Login failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.openSession(w, r, user.ID)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", authPageData{GoogleSignIn: s.google != nil})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := sanitizeInput(r.Form.Get("name"))
	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	id, err := s.authSvc.Register(r.Context(), name, email, password)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, auth.ErrEmailTaken) {
			status = http.StatusConflict
		}
		w.WriteHeader(status)
		s.render(w, r, "register.html", authPageData{
			Error:        err.Error(),
			GoogleSignIn: s.google != nil,
		})
		return
	}

	s.openSession(w, r, id)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		http.NotFound(w, r)
		return
	}

	state, err := randomState()
	if err != nil {
		slog.ErrorContext(r.Context(), "State generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.google.AuthURL(state), http.StatusSeeOther)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		http.NotFound(w, r)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		slog.WarnContext(r.Context(), "OAuth state mismatch")
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := s.google.Exchange(r.Context(), code)
	if err != nil {
		slog.ErrorContext(r.Context(), "Google exchange failed", "error", err)
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	user, err := s.authSvc.LoginWithGoogle(r.Context(), profile)
	if err != nil {
		slog.ErrorContext(r.Context(), "Google login failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.openSession(w, r, user.ID)
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request, userID int64) {
	token, err := s.sessions.Create(userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Session creation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
