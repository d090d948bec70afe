package ink

import "testing"

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in   string
		want Channel
	}{
		{"y", Yellow},
		{"Magenta", Magenta},
		{"C", Cyan},
		{"black", Black},
	}
	for _, tc := range tests {
		got, err := ParseChannel(tc.in)
		if err != nil {
			t.Fatalf("ParseChannel(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseChannel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseChannel("orange"); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestOrderIsYMCK(t *testing.T) {
	var s string
	for i, c := range Order {
		if int(c) != i {
			t.Errorf("Order[%d] = %d, want %d", i, c, i)
		}
		s += c.String()
	}
	if s != "YMCK" {
		t.Errorf("container order = %s, want YMCK", s)
	}
}
