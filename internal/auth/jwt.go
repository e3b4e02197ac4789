package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/notedeck/notedeck-be/internal/models"
)

// CookieName is the HTTP-only cookie carrying the session token.
const CookieName = "auth_token"

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// Service issues and validates session tokens. The signing secret and token
// lifetime are injected from configuration.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service with the given secret and token lifetime.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a new signed token for a given user.
func (s *Service) GenerateToken(user models.User) (string, error) {
	expirationTime := time.Now().Add(s.ttl)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// ValidateToken parses and validates a token string.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ClaimsFromRequest extracts and validates the token carried by a request,
// checking the Authorization header first and the cookie second. It returns
// nil when no valid token is present; routes that allow anonymous access use
// this instead of the middleware.
func (s *Service) ClaimsFromRequest(r *http.Request) *Claims {
	var tokenStr string

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			tokenStr = parts[1]
		}
	}

	if tokenStr == "" {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			return nil
		}
		tokenStr = cookie.Value
	}

	if tokenStr == "" {
		return nil
	}

	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil
	}
	return claims
}

// Middleware protects routes that always require an authenticated user.
func (s *Service) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := s.ClaimsFromRequest(r)
			if claims == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "missing or invalid auth token"}`))
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}
