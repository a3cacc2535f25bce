package frontmatter

import "testing"

func TestCanonical_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := Canonical(Fields{"fingerprint": "x"}, "fingerprint")
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty output, got %q %v", out, err)
	}
}

func TestCanonical_SortsKeysRecursively(t *testing.T) {
	fields := Fields{
		"title":       "Events",
		"fingerprint": "abc",
		"sidebar":     map[string]any{"order": 2, "label": "Events"},
	}
	out, err := Canonical(fields, "fingerprint")
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	want := "sidebar:\n  label: Events\n  order: 2\ntitle: Events\n"
	if string(out) != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestCanonical_Deterministic(t *testing.T) {
	fields := Fields{"b": 1, "a": []any{"x", map[string]any{"z": true, "y": false}}}
	first, err := Canonical(fields)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	for range 5 {
		again, _ := Canonical(fields)
		if string(again) != string(first) {
			t.Fatalf("non-deterministic output:\n%s\n%s", first, again)
		}
	}
}
