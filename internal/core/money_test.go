package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half away from zero
		{"0.004", 0, true},
		{"0.005", 1, true},
		{"-0.004", 0, true},
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-1.005", -101, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"1,000", 0, false},
		{"2,500", 0, false},
		{"12,345", 0, false},
		{"1,23", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:     "0.00",
		5:     "0.05",
		1250:  "12.50",
		-1999: "-19.99",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Fatalf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyStringParsesBack(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 123456, -42} {
		m := Money{Cents: cents}
		back, err := ParseAmount(m.String())
		if err != nil || back != m {
			t.Fatalf("round trip of %d gave %v (err=%v)", cents, back, err)
		}
	}
}
