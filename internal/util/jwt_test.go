package util

import (
	"testing"
	"time"

	"exam_portal_backend/internal/model"
)

func testUser(role model.UserRole) *model.User {
	return &model.User{
		UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
		Email:    "user@example.com",
		Role:     role,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	user := testUser(model.Admin)
	jti := model.GenerateUUID()

	token, err := GenerateJWT(user, jti, "round-trip-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "round-trip-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Role != model.Admin {
		t.Errorf("Role = %q, want %q", claims.Role, model.Admin)
	}
	if claims.ID != jti {
		t.Errorf("jti = %q, want %q", claims.ID, jti)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(model.Student), model.GenerateUUID(), "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Error("token signed with another secret must not parse")
	}
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(model.Student), model.GenerateUUID(), "expiry-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "expiry-secret"); err == nil {
		t.Error("expired token must not parse")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", "whatever"); err == nil {
		t.Error("malformed token must not parse")
	}
}
