package service

import (
	"strings"
	"testing"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService(&config.Config{JWTSecret: "secret", JWTExpiry: time.Hour})
	user := uuid.New()

	token, err := auth.GenerateToken(user, "ana@example.com", model.RoleAdmin, 0)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	id, _ := claims.UserID()
	if id != user || !claims.IsAdmin() || claims.Email != "ana@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	auth := NewAuthService(&config.Config{JWTSecret: "secret", JWTExpiry: time.Hour})
	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour})

	foreign, _ := other.GenerateToken(uuid.New(), "", model.RoleStudent, 0)
	if _, err := auth.ValidateToken(foreign); err == nil {
		t.Error("token signed with another secret should be rejected")
	}

	fallback, _ := auth.GenerateToken(uuid.New(), "", model.RoleStudent, -time.Hour)
	// A non-positive ttl falls back to the configured expiry.
	if _, err := auth.ValidateToken(fallback); err != nil {
		t.Errorf("fallback ttl token rejected: %v", err)
	}

	if _, err := auth.ValidateToken("not.a.jwt"); err == nil || !strings.Contains(err.Error(), "parse token") {
		t.Errorf("err = %v", err)
	}
}
