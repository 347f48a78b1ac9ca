package jwt

import (
	"testing"
)

func TestCreateAndExtract(t *testing.T) {
	token, err := CreateToken("user1", "test_secret")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	userID, err := ExtractUserIDFromToken(token, "test_secret")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if userID != "user1" {
		t.Fatalf("Expected user1, got %s", userID)
	}
}

func TestExtractRejectsWrongSecret(t *testing.T) {
	token, err := CreateToken("user1", "test_secret")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := ExtractUserIDFromToken(token, "other_secret"); err == nil {
		t.Fatal("Expected token signed with another secret to be rejected")
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	if _, err := ExtractUserIDFromToken("not-a-token", "test_secret"); err == nil {
		t.Fatal("Expected malformed token to be rejected")
	}
}
