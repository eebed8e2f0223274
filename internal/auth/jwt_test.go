package auth

import (
	"net/http/httptest"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "admin")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT returned error: %v", err)
	}

	if userID, ok := claims["user_id"].(float64); !ok || uint(userID) != 42 {
		t.Fatalf("user_id claim = %v, want 42", claims["user_id"])
	}
	if claims["role"] != "admin" {
		t.Fatalf("role claim = %v, want admin", claims["role"])
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestUserIDFromRequest(t *testing.T) {
	t.Run("valid bearer token", func(t *testing.T) {
		token, err := GenerateJWT(7, "user")
		if err != nil {
			t.Fatalf("GenerateJWT returned error: %v", err)
		}

		req := httptest.NewRequest("GET", "/public", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		userID, err := UserIDFromRequest(req)
		if err != nil {
			t.Fatalf("UserIDFromRequest returned error: %v", err)
		}
		if userID != 7 {
			t.Fatalf("userID = %d, want 7", userID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/public", nil)
		if _, err := UserIDFromRequest(req); err == nil {
			t.Fatal("expected error without Authorization header")
		}
	})
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.example.org"}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Fatalf("IsValidEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{"", "user", "user@", "@example.com", "user@example"}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Fatalf("IsValidEmail(%q) = true, want false", email)
		}
	}
}
