package support

import "testing"

func TestGetEnv(t *testing.T) {
	t.Run("returns set value", func(t *testing.T) {
		t.Setenv("GATEKEEPER_TEST_KEY", "value")
		if got := GetEnv("GATEKEEPER_TEST_KEY", "fallback"); got != "value" {
			t.Fatalf("GetEnv returned %q, want %q", got, "value")
		}
	})

	t.Run("returns fallback when unset", func(t *testing.T) {
		if got := GetEnv("GATEKEEPER_TEST_MISSING", "fallback"); got != "fallback" {
			t.Fatalf("GetEnv returned %q, want %q", got, "fallback")
		}
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Fatal("CheckPassword = false for the original password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Fatal("CheckPassword = true for a different password")
	}
}
