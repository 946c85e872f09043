package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default tariff: first hour (or any fraction of it) at a flat rate, then a
// lower rate for each additional started hour.
const (
	DefaultFirstHourRate      = "5.00"
	DefaultAdditionalHourRate = "3.00"
)

// Engine computes parking fees. Pure and deterministic; monetary values use
// exact decimal arithmetic so 2h30m is 11.00, never 10.999999.
type Engine struct {
	firstHour      decimal.Decimal
	additionalHour decimal.Decimal
}

// NewEngine builds an engine with the given rates.
func NewEngine(firstHour, additionalHour decimal.Decimal) *Engine {
	return &Engine{firstHour: firstHour, additionalHour: additionalHour}
}

// DefaultEngine returns an engine with the default tariff.
func DefaultEngine() *Engine {
	return NewEngine(
		decimal.RequireFromString(DefaultFirstHourRate),
		decimal.RequireFromString(DefaultAdditionalHourRate),
	)
}

// Fee returns the amount owed for a stay from entry to exit. A non-positive
// duration yields zero; upstream rejects that case as an error before charging.
func (e *Engine) Fee(entry, exit time.Time) decimal.Decimal {
	stay := exit.Sub(entry)
	if stay <= 0 {
		return decimal.Zero
	}
	if stay <= time.Hour {
		return e.firstHour
	}

	// Each started hour beyond the first is billed in full.
	extra := stay - time.Hour
	hours := int64(extra / time.Hour)
	if extra%time.Hour != 0 {
		hours++
	}
	return e.firstHour.Add(e.additionalHour.Mul(decimal.NewFromInt(hours)))
}
