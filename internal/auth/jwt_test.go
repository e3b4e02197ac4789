package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/notedeck/notedeck-be/internal/models"
)

func testUser() models.User {
	return models.User{ID: "user-123", Username: "alice"}
}

func TestGenerateAndValidate_Success(t *testing.T) {
	t.Parallel()

	svc := NewService("super-secret", time.Hour)

	tok, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Username != "alice" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", -1*time.Second)

	tok, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := svc.ValidateToken(tok); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewService("right-secret", time.Hour).GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := NewService("wrong-secret", time.Hour).ValidateToken(tok); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestValidateToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := NewService("k", time.Hour).ValidateToken("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestClaimsFromRequest_Sources(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", time.Hour)
	tok, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// Authorization header
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	if claims := svc.ClaimsFromRequest(r); claims == nil || claims.UserID != "user-123" {
		t.Fatalf("header token not accepted: %+v", claims)
	}

	// Cookie fallback
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	if claims := svc.ClaimsFromRequest(r); claims == nil || claims.UserID != "user-123" {
		t.Fatalf("cookie token not accepted: %+v", claims)
	}

	// No token at all
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if claims := svc.ClaimsFromRequest(r); claims != nil {
		t.Fatalf("expected nil claims without a token, got %+v", claims)
	}

	// Invalid token
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	if claims := svc.ClaimsFromRequest(r); claims != nil {
		t.Fatalf("expected nil claims for an invalid token, got %+v", claims)
	}
}
