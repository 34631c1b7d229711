package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "forum", TTL: time.Hour}
	tok, err := j.Issue(42, "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UID != 42 || c.Role != "admin" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "forum", TTL: time.Hour}
	other := &JWTer{Secret: []byte("other"), Issuer: "forum", TTL: time.Hour}
	tok, _ := other.Issue(1, "user")
	if _, err := j.Parse(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("token signed with another secret err = %v", err)
	}

	wrongIssuer := &JWTer{Secret: []byte("s3cret"), Issuer: "elsewhere", TTL: time.Hour}
	tok, _ = wrongIssuer.Issue(1, "user")
	if _, err := j.Parse(tok); err == nil {
		t.Fatalf("token with another issuer must be rejected")
	}

	expired := &JWTer{Secret: []byte("s3cret"), Issuer: "forum", TTL: -time.Hour}
	tok, _ = expired.Issue(1, "user")
	if _, err := j.Parse(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token err = %v", err)
	}
}
