package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "s3cret" {
		t.Fatalf("password stored in plain text")
	}
	if !CheckPassword("s3cret", h) {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword("wrong", h) {
		t.Fatalf("wrong password accepted")
	}
}
