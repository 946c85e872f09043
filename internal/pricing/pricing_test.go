package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFee_Tiers(t *testing.T) {
	entry := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	engine := DefaultEngine()

	cases := []struct {
		name string
		stay time.Duration
		want string
	}{
		{"zero duration", 0, "0"},
		{"negative duration", -time.Minute, "0"},
		{"one minute", time.Minute, "5.00"},
		{"59 minutes", 59 * time.Minute, "5.00"},
		{"exactly one hour", time.Hour, "5.00"},
		{"61 minutes starts second hour", 61 * time.Minute, "8.00"},
		{"90 minutes", 90 * time.Minute, "8.00"},
		{"exactly two hours", 2 * time.Hour, "8.00"},
		{"two and a half hours", 150 * time.Minute, "11.00"},
		{"three hours", 3 * time.Hour, "11.00"},
		{"one second into fourth hour", 3*time.Hour + time.Second, "14.00"},
		{"full day", 24 * time.Hour, "74.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.Fee(entry, entry.Add(tc.stay))
			if got.String() != tc.want {
				t.Fatalf("fee for %v: got %s want %s", tc.stay, got, tc.want)
			}
		})
	}
}

func TestFee_ExactDecimalArithmetic(t *testing.T) {
	entry := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	got := DefaultEngine().Fee(entry, entry.Add(150*time.Minute))

	want := decimal.RequireFromString("11.00")
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}
	// No binary floating point drift allowed on the wire representation either.
	if got.String() == "10.999999" || got.String() == "11.000000000000001" {
		t.Fatalf("fee drifted: %s", got)
	}
}

func TestFee_CustomRates(t *testing.T) {
	entry := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	engine := NewEngine(decimal.RequireFromString("2.50"), decimal.RequireFromString("1.25"))

	got := engine.Fee(entry, entry.Add(3*time.Hour+5*time.Minute))
	if got.String() != "6.25" {
		t.Fatalf("got %s want 6.25", got)
	}
}

func TestFee_Deterministic(t *testing.T) {
	entry := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	exit := entry.Add(4 * time.Hour)
	engine := DefaultEngine()

	first := engine.Fee(entry, exit)
	for i := 0; i < 10; i++ {
		if next := engine.Fee(entry, exit); !next.Equal(first) {
			t.Fatalf("fee not deterministic: %s vs %s", next, first)
		}
	}
}
