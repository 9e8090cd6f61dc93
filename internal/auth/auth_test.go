package auth

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("pikachu1")
	if err != nil {
		t.Fatal("Failed to hash password:", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("Expected PHC-encoded argon2id hash, got %s", hash)
	}

	if strings.Contains(hash, "pikachu1") {
		t.Error("Hash must not contain the plaintext password")
	}

	if err := VerifyPassword("pikachu1", hash); err != nil {
		t.Error("Expected correct password to verify:", err)
	}

	if err := VerifyPassword("wrongpassword", hash); err == nil {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	first, err := HashPassword("pikachu1")
	if err != nil {
		t.Fatal("Failed to hash password:", err)
	}

	second, err := HashPassword("pikachu1")
	if err != nil {
		t.Fatal("Failed to hash password:", err)
	}

	if first == second {
		t.Error("Two hashes of the same password should differ (random salt)")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if err := VerifyPassword("anything", "not-a-hash"); err == nil {
		t.Error("Expected malformed hash to fail verification")
	}

	if err := VerifyPassword("anything", "$bcrypt$v=19$m=1,t=1,p=1$abc$def"); err == nil {
		t.Error("Expected non-argon2id hash to fail verification")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("test-secret", "ash", time.Hour)
	if err != nil {
		t.Fatal("Failed to issue token:", err)
	}

	claims, err := VerifyToken("test-secret", token)
	if err != nil {
		t.Fatal("Failed to verify token:", err)
	}

	if claims.Username != "ash" {
		t.Errorf("Expected username 'ash', got %s", claims.Username)
	}

	if claims.ID == "" {
		t.Error("Expected token to carry a jti")
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("test-secret", "ash", time.Hour)
	if err != nil {
		t.Fatal("Failed to issue token:", err)
	}

	if _, err := VerifyToken("other-secret", token); err == nil {
		t.Error("Expected token signed with a different secret to fail")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken("test-secret", "ash", -time.Minute)
	if err != nil {
		t.Fatal("Failed to issue token:", err)
	}

	if _, err := VerifyToken("test-secret", token); err == nil {
		t.Error("Expected expired token to fail verification")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken("test-secret", "not.a.token"); err == nil {
		t.Error("Expected garbage token to fail verification")
	}
}
