package checkout

import (
	"strings"
	"testing"
)

func TestGenerateCodeFormat(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		if !strings.HasPrefix(code, "FLAM-") {
			t.Fatalf("missing prefix: %s", code)
		}
		suffix := strings.TrimPrefix(code, "FLAM-")
		if len(suffix) != codeLength {
			t.Fatalf("suffix length = %d in %s", len(suffix), code)
		}
		for _, r := range suffix {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("unexpected character %q in %s", r, code)
			}
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 95 {
		t.Fatalf("too many collisions: %d unique of 100", len(seen))
	}
}
