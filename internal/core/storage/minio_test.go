package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	k := ObjectKey("avatars", "Me.PNG")
	if !strings.HasPrefix(k, "avatars/") || !strings.HasSuffix(k, ".png") {
		t.Fatalf("unexpected key %q", k)
	}
	if ObjectKey("avatars", "Me.PNG") == k {
		t.Fatalf("keys must be unique per upload")
	}
}

func TestNewMinioPublicURL(t *testing.T) {
	s, err := NewMinio(Config{Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "forum"})
	if err != nil {
		t.Fatalf("new minio: %v", err)
	}
	if s.cfg.PublicURL != "http://localhost:9000/forum" {
		t.Fatalf("public url = %q", s.cfg.PublicURL)
	}
}

func TestDisabledStore(t *testing.T) {
	if _, err := (Disabled{}).Put(context.Background(), "x", Upload{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v", err)
	}
}
