package guid

import (
	"strings"
	"testing"
)

func TestIsGUID(t *testing.T) {
	valid := []string{
		"9b2b8a3e-1f44-4c1a-9f2d-0a1b2c3d4e5f",
		"9B2B8A3E-1F44-4C1A-9F2D-0A1B2C3D4E5F",
		"  9b2b8a3e-1f44-4c1a-9f2d-0a1b2c3d4e5f  ",
		"11111111-2222-1333-8444-555555555555",
	}
	for _, v := range valid {
		if !IsGUID(v) {
			t.Errorf("IsGUID(%q) = false, want true", v)
		}
	}

	invalid := []string{
		"",
		"not-a-guid",
		"9b2b8a3e1f444c1a9f2d0a1b2c3d4e5f",
		"9b2b8a3e-1f44-6c1a-9f2d-0a1b2c3d4e5f", // version nibble out of range
		"9b2b8a3e-1f44-4c1a-cf2d-0a1b2c3d4e5f", // variant nibble out of range
		"9b2b8a3e-1f44-4c1a-9f2d-0a1b2c3d4e5",  // short tail
		"record-123",
	}
	for _, v := range invalid {
		if IsGUID(v) {
			t.Errorf("IsGUID(%q) = true, want false", v)
		}
	}
}

func TestNewProducesValidGUIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if !IsGUID(id) {
			t.Fatalf("New() produced a non-GUID value %q", id)
		}
		if seen[id] {
			t.Fatalf("New() produced a duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestFallbackIDShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := fallbackID()
		if !IsGUID(id) {
			t.Fatalf("fallbackID() produced a non-GUID value %q", id)
		}
		if id[14] != '4' {
			t.Fatalf("fallbackID() version nibble = %c, want 4 (%s)", id[14], id)
		}
		if !strings.ContainsRune("89ab", rune(id[19])) {
			t.Fatalf("fallbackID() variant nibble = %c (%s)", id[19], id)
		}
	}
}
