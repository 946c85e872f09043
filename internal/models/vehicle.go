package models

import (
	"strings"
	"time"
)

// Vehicle types accepted at registration.
const (
	VehicleTypeCar        = "car"
	VehicleTypeMotorcycle = "motorcycle"
	VehicleTypeTruck      = "truck"
)

// Vehicle is a registered vehicle. The plate is stored normalized and is
// immutable once the vehicle is created.
type Vehicle struct {
	ID        string     `db:"id" json:"id"`
	Plate     string     `db:"plate" json:"plate"`
	Model     *string    `db:"model" json:"model,omitempty"`
	Color     *string    `db:"color" json:"color,omitempty"`
	Type      string     `db:"type" json:"type"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// NormalizePlate uppercases a plate and strips spaces and hyphens. The same
// normalization is applied at registration and when filtering by plate.
func NormalizePlate(raw string) string {
	plate := strings.ToUpper(strings.TrimSpace(raw))
	plate = strings.ReplaceAll(plate, "-", "")
	return strings.ReplaceAll(plate, " ", "")
}

// ValidVehicleType reports whether t is one of the accepted vehicle types.
func ValidVehicleType(t string) bool {
	switch t {
	case VehicleTypeCar, VehicleTypeMotorcycle, VehicleTypeTruck:
		return true
	}
	return false
}
