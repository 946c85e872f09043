package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session represents one continuous stay of a vehicle in the lot.
// ExitTime and ChargedAmount are set exactly once when the session closes;
// Version changes on every successful mutation and guards concurrent exits.
type Session struct {
	ID            string           `db:"id" json:"id"`
	VehicleID     string           `db:"vehicle_id" json:"vehicle_id"`
	Plate         string           `db:"plate" json:"plate,omitempty"`
	EntryTime     time.Time        `db:"entry_time" json:"entry_time"`
	ExitTime      *time.Time       `db:"exit_time" json:"exit_time,omitempty"`
	ChargedAmount *decimal.Decimal `db:"charged_amount" json:"charged_amount,omitempty"`
	Active        bool             `db:"active" json:"active"`
	Version       int64            `db:"version" json:"version"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time       `db:"updated_at" json:"updated_at,omitempty"`
}
