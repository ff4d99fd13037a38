package ui

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Second, "00:01:01"},
		{90 * time.Minute, "01:30:00"},
		{10*time.Hour + 5*time.Second, "10:00:05"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("FormatClock(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney("R$", decimal.RequireFromString("22.5")); got != "R$ 22.50" {
		t.Errorf("FormatMoney = %q", got)
	}
	if got := FormatMoney("", decimal.NewFromInt(90)); got != "90.00" {
		t.Errorf("FormatMoney without currency = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("02/01/2006", "2024-06-01"); got != "01/06/2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate("02/01/2006", "someday"); got != "someday" {
		t.Errorf("FormatDate invalid = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(90 * time.Second); got != "1m30s" {
		t.Errorf("FormatDuration = %q", got)
	}
	if got := FormatDuration(time.Hour + 2*time.Minute); got != "1h2m0s" {
		t.Errorf("FormatDuration = %q", got)
	}
}

func TestShortIDAndTruncate(t *testing.T) {
	if got := ShortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("ShortID = %q", got)
	}
	if got := Truncate("reviewed fractions\nand decimals", 12); got != "reviewed ..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 12); got != "short" {
		t.Errorf("Truncate short = %q", got)
	}
}
