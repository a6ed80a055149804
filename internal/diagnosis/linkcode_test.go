package diagnosis

import "testing"

func TestGenerateLinkCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateLinkCode()
		if err != nil {
			t.Fatalf("GenerateLinkCode failed: %v", err)
		}
		if !IsValidLinkCode(code) {
			t.Fatalf("generated code %q does not match format", code)
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("only %d distinct codes in 100 draws, generator looks broken", len(seen))
	}
}

func TestIsValidLinkCode(t *testing.T) {
	valid := []string{"A1B2C3D4", "ZZZZZZZZ", "00000000"}
	for _, code := range valid {
		if !IsValidLinkCode(code) {
			t.Errorf("IsValidLinkCode(%q) = false, want true", code)
		}
	}

	invalid := []string{"", "A1B2C3D", "A1B2C3D45", "a1b2c3d4", "A1B2C3D!", "A1B2 3D4"}
	for _, code := range invalid {
		if IsValidLinkCode(code) {
			t.Errorf("IsValidLinkCode(%q) = true, want false", code)
		}
	}
}
