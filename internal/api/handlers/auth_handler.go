package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and session checks.
type AuthHandler struct {
	users         services.UserServiceProvider
	events        services.EventServiceProvider
	tokens        *auth.Service
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies should be true in
// production so the session cookie is only sent over TLS.
func NewAuthHandler(users services.UserServiceProvider, events services.EventServiceProvider, tokens *auth.Service, secureCookies bool) *AuthHandler {
	return &AuthHandler{users: users, events: events, tokens: tokens, secureCookies: secureCookies}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests. The account can be
// identified by username or email; "credential" accepts either.
type LoginPayload struct {
	Credential string `json:"credential"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (p LoginPayload) credential() string {
	if p.Credential != "" {
		return p.Credential
	}
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.Register(payload.Email, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			writeError(w, http.StatusConflict, "username or email already taken")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.events.CreateEvent("auth.register", "info", "User '"+user.Username+"' registered.", nil)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login handles user authentication and token issuance. The token is returned
// in the body and set as an HTTP-only cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	credential := payload.credential()
	if credential == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "credential and password are required")
		return
	}

	user, err := h.users.Authenticate(credential, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("credential", credential).Msg("Failed authentication attempt")
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Error().Err(err).Msg("Authentication lookup failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	h.events.CreateEvent("auth.login", "info", "User '"+user.Username+"' logged in.", nil)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session cookie. Tokens are stateless, so this is purely a
// client-side credential drop.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Check returns the user bound to the current token.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User from token not found")
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
