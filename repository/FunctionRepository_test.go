package repository

import (
	"regexp"
	"testing"
)

var orderNumberRe = regexp.MustCompile(`^PO-[A-Z]{2}[0-9]{5}$`)

func TestGenerateOrderNumberFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := GenerateOrderNumber()
		if !orderNumberRe.MatchString(got) {
			t.Fatalf("GenerateOrderNumber() = %q, want format PO-AB12345", got)
		}
	}
}

func TestGenerateRandomCodeFormat(t *testing.T) {
	got := GenerateRandomCode()
	if len(got) != 7 {
		t.Errorf("GenerateRandomCode() = %q, want 7 characters", got)
	}
}

func TestGenerateRandomNumberRange(t *testing.T) {
	for i := 0; i < 20; i++ {
		n := GenerateRandomNumber()
		if n < 100000000 || n > 999999999 {
			t.Fatalf("GenerateRandomNumber() = %d, want nine digits", n)
		}
	}
}

func TestNormalizeReferenceName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kilogram", "Kilogram"},
		{"  Square   Metre  ", "Square Metre"},
		{"\tLitre\n", "Litre"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeReferenceName(tt.in); got != tt.want {
			t.Errorf("NormalizeReferenceName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
