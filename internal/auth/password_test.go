package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestHashPassword_ProducesValidHash(t *testing.T) {
	hash, err := HashPassword("mysecretpassword")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "" || hash == "mysecretpassword" {
		t.Errorf("unexpected hash %q", hash)
	}
	if !CheckPassword(hash, "mysecretpassword") {
		t.Error("CheckPassword returned false for the correct password")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("CheckPassword returned true for the wrong password")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	if CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Error("malformed hash must never match")
	}
}
