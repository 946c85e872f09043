package models

import "testing"

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"abc1234", "ABC1234"},
		{"ABC-1234", "ABC1234"},
		{"  abc 12-34  ", "ABC1234"},
		{"a b c", "ABC"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePlate(tc.raw); got != tc.want {
			t.Fatalf("NormalizePlate(%q): got %q want %q", tc.raw, got, tc.want)
		}
	}
}

func TestValidVehicleType(t *testing.T) {
	for _, valid := range []string{VehicleTypeCar, VehicleTypeMotorcycle, VehicleTypeTruck} {
		if !ValidVehicleType(valid) {
			t.Fatalf("%q must be valid", valid)
		}
	}
	for _, invalid := range []string{"", "boat", "CAR"} {
		if ValidVehicleType(invalid) {
			t.Fatalf("%q must be invalid", invalid)
		}
	}
}
