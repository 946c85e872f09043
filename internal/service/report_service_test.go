package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkyard/internal/models"
)

type fakeReportStore struct {
	sessions []models.Session

	revenueFrom, revenueTo time.Time
}

func (f *fakeReportStore) RevenueByDay(_ context.Context, from, to time.Time) ([]models.RevenueByDay, error) {
	f.revenueFrom, f.revenueTo = from, to
	return nil, nil
}

func (f *fakeReportStore) TopVehicles(_ context.Context, _, _ time.Time, _ int) ([]models.TopVehicle, error) {
	return nil, nil
}

func (f *fakeReportStore) SessionsOverlapping(_ context.Context, _, _ time.Time) ([]models.Session, error) {
	return f.sessions, nil
}

func ts(h, m int) time.Time {
	return time.Date(2026, 4, 1, h, m, 0, 0, time.UTC)
}

func TestOccupancyByHour_CountsOverlappingStays(t *testing.T) {
	exit1 := ts(10, 30)
	store := &fakeReportStore{sessions: []models.Session{
		{ID: "s1", EntryTime: ts(9, 15), ExitTime: &exit1, Active: false}, // 09:15-10:30
		{ID: "s2", EntryTime: ts(10, 45), Active: true},                   // still open
	}}
	svc := NewReportService(store)

	points, err := svc.OccupancyByHour(context.Background(), ts(9, 0), ts(12, 0))
	if err != nil {
		t.Fatalf("occupancy: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("slots: got %d want 3", len(points))
	}

	want := []int{1, 2, 1} // 09h: s1; 10h: s1 until 10:30 + s2 from 10:45; 11h: s2
	for i, point := range points {
		if point.Vehicles != want[i] {
			t.Fatalf("slot %v: got %d vehicles want %d", point.Hour, point.Vehicles, want[i])
		}
	}
}

func TestOccupancyByHour_RejectsHugePeriods(t *testing.T) {
	svc := NewReportService(&fakeReportStore{})

	from := ts(0, 0)
	if _, err := svc.OccupancyByHour(context.Background(), from, from.AddDate(0, 3, 0)); !errors.Is(err, ErrPeriodTooLarge) {
		t.Fatalf("got %v want ErrPeriodTooLarge", err)
	}
}

func TestRevenueByDay_DefaultsToLast30Days(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store)

	now := ts(12, 0)
	svc.now = func() time.Time { return now }

	if _, err := svc.RevenueByDay(context.Background(), time.Time{}, time.Time{}); err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if !store.revenueTo.Equal(now) {
		t.Fatalf("to: got %v want %v", store.revenueTo, now)
	}
	if !store.revenueFrom.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("from: got %v want %v", store.revenueFrom, now.AddDate(0, 0, -30))
	}
}
