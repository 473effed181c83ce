package tool

import "testing"

func TestCanonical(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"a0B00000000000A", "a0B00000000000A"},
		{"a0B00000000000AXXX", "a0B00000000000A"},
		{"short", "short"},
	}
	for _, c := range cases {
		if got := Canonical(c.in); got != c.want {
			t.Errorf("Canonical(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestContainsCanonical(t *testing.T) {
	ids := []string{"005000000000001AAA", "005000000000002"}

	if !ContainsCanonical(ids, "005000000000001") {
		t.Error("15-char id should match its 18-char list entry")
	}
	if !ContainsCanonical(ids, "005000000000002BBB") {
		t.Error("18-char id should match its 15-char list entry")
	}
	if ContainsCanonical(ids, "005000000000003AAA") {
		t.Error("unrelated id should not match")
	}
	if ContainsCanonical(nil, "005000000000001") {
		t.Error("empty list should never match")
	}
}
