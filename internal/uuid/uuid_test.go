package uuid

import (
	"strings"
	"testing"
)

func TestNew_IsVersion7(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("New() = %q is not a valid UUID", id)
	}
	if id[14] != '7' {
		t.Errorf("New() = %q, want version 7", id)
	}
}

func TestNew_TimeOrdered(t *testing.T) {
	a := New()
	b := New()
	if a == b {
		t.Fatal("expected distinct ids")
	}
	// The first 48 bits are a millisecond timestamp.
	if strings.Compare(a[:8], b[:8]) > 0 {
		t.Errorf("expected %s to sort before %s", a, b)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190F3A2-7B1C-7D2E-8F3A-0123456789AB")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != "0190f3a2-7b1c-7d2e-8f3a-0123456789ab" {
		t.Errorf("Parse() = %q, want lower-case canonical form", got)
	}
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected an error for an invalid UUID")
	}
	if IsValid("123") {
		t.Error("IsValid(123) = true")
	}
}
