package core

import (
	"testing"
	"time"
)

func TestParseID(t *testing.T) {
	if id, err := ParseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (err=%v)", id, err)
	}
	for _, in := range []string{"", "x", "1.5"} {
		if _, err := ParseID(in); err != ErrInvalidID {
			t.Fatalf("%q expected ErrInvalidID, got %v", in, err)
		}
	}
}

func TestDefaultDate(t *testing.T) {
	now := time.Date(2025, 3, 7, 18, 30, 0, 0, time.UTC)
	if got := DefaultDate("", now); got != "2025-03-07" {
		t.Fatalf("blank date: got %q", got)
	}
	if got := DefaultDate("   ", now); got != "2025-03-07" {
		t.Fatalf("whitespace date: got %q", got)
	}
	if got := DefaultDate("2024-12-31", now); got != "2024-12-31" {
		t.Fatalf("explicit date: got %q", got)
	}
}

func TestMonthOf(t *testing.T) {
	cases := map[string]string{
		"2025-03-07": "2025-03",
		"2025-03":    "2025-03",
		"2025":       "2025",
		"":           "",
	}
	for in, want := range cases {
		if got := MonthOf(in); got != want {
			t.Fatalf("MonthOf(%q) = %q, want %q", in, got, want)
		}
	}
}
