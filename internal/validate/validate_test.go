package validate

import "testing"

func TestID(t *testing.T) {
	for in, want := range map[string]bool{
		"var-kaos-m": true,
		" v1 ":       true,
		"":           false,
		"a b":        false,
		"x'; DROP":   false,
	} {
		if _, ok := ID(in); ok != want {
			t.Errorf("ID(%q) = %v, want %v", in, ok, want)
		}
	}
}

func TestMethod(t *testing.T) {
	if m, ok := Method("cash"); !ok || m != "CASH" {
		t.Fatalf("Method(cash) = %q, %v", m, ok)
	}
	if _, ok := Method("BARTER"); ok {
		t.Fatal("BARTER must be rejected")
	}
}

func TestLimit(t *testing.T) {
	if got := Limit("", 50); got != 50 {
		t.Fatalf("empty defaults, got %d", got)
	}
	if got := Limit("10", 50); got != 10 {
		t.Fatalf("want 10, got %d", got)
	}
	if got := Limit("9999", 50); got != 200 {
		t.Fatalf("clamped to 200, got %d", got)
	}
	if got := Limit("-3", 50); got != 50 {
		t.Fatalf("negative defaults, got %d", got)
	}
}
