package roomcode

import "testing"

func TestNew_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if !Valid(code) {
			t.Fatalf("generated code %q does not match XXX-XXXX-XXX", code)
		}
	}
}

func TestNew_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q after %d generations", code, i)
		}
		seen[code] = true
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"oBE-FdOU-hTd", true},
		{"aXy-QwEr-Ztq", true},
		{"ab-cdef-ghi", false},
		{"abc-defg-hij-k", false},
		{"ab1-cdef-ghi", false},
		{"", false},
	}
	for _, c := range cases {
		if got := Valid(c.code); got != c.want {
			t.Errorf("Valid(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}
