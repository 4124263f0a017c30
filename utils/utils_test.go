package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	tokenStr, err := GenerateJWT("buyer@example.com", "buyer")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	token, err := ValidateJWT(tokenStr)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims are not MapClaims: %T", token.Claims)
	}
	if claims["email"] != "buyer@example.com" {
		t.Errorf("email claim = %v, want buyer@example.com", claims["email"])
	}
	if claims["role"] != "buyer" {
		t.Errorf("role claim = %v, want buyer", claims["role"])
	}
	if claims["type"] != "access" {
		t.Errorf("type claim = %v, want access", claims["type"])
	}
}

func TestRefreshTokenCarriesSession(t *testing.T) {
	tokenStr, err := GenerateRefreshToken("vendor@example.com", "session-abc")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	token, err := ValidateJWT(tokenStr)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["type"] != "refresh" {
		t.Errorf("type claim = %v, want refresh", claims["type"])
	}
	if claims["sessionId"] != "session-abc" {
		t.Errorf("sessionId claim = %v, want session-abc", claims["sessionId"])
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, err := ValidateJWT(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestHashAndValidatePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}
	if !ValidatePassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if ValidatePassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}
