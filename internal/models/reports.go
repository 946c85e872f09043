package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueByDay aggregates charged amounts of closed sessions per exit date.
type RevenueByDay struct {
	Date     time.Time       `json:"date"`
	Sessions int             `json:"sessions"`
	Total    decimal.Decimal `json:"total"`
}

// TopVehicle ranks vehicles by total parked time within a period.
type TopVehicle struct {
	Plate        string  `json:"plate"`
	Model        *string `json:"model,omitempty"`
	TotalMinutes int64   `json:"total_minutes"`
	Sessions     int     `json:"sessions"`
}

// OccupancyPoint counts vehicles present in the lot during one hour slot.
type OccupancyPoint struct {
	Hour     time.Time `json:"hour"`
	Vehicles int       `json:"vehicles"`
}
