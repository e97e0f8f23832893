package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("12.5"), "GBP"); got != "£12.50" {
		t.Errorf("GBP: got %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("3.14159"), "???"); got != "3.14" {
		t.Errorf("unknown currency: got %q", got)
	}

	huge, err := ParseAmount("100000000000000000000")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if got := FormatAmount(huge, "INR"); got != "100000000000000000000.00" {
		t.Errorf("amount beyond int64 minor units: got %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("92233720368547758.07"), "INR"); got != "₹92,233,720,368,547,758.07" {
		t.Errorf("largest representable amount: got %q", got)
	}
}
