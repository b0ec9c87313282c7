package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew_IsVersion7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New returned unparsable id %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("0192F0C4-5B7A-7C3D-9E1F-2A3B4C5D6E7F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0192f0c4-5b7a-7c3d-9e1f-2a3b4c5d6e7f" {
		t.Errorf("unexpected canonical form %q", got)
	}

	if _, err := Normalize("not-a-uuid"); err == nil {
		t.Error("expected error for malformed id")
	}
}
