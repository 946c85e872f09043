package service

import (
	"context"
	"errors"
	"time"

	"parkyard/internal/models"
)

const (
	defaultReportWindow = 30 * 24 * time.Hour
	topVehiclesLimit    = 10
	maxOccupancySlots   = 24 * 31 // cap at a month of hourly slots
)

// ErrPeriodTooLarge rejects occupancy queries that would produce an
// unreasonable number of hourly slots.
var ErrPeriodTooLarge = errors.New("report period too large")

// ReportStore is the read-only aggregation surface behind ReportService.
type ReportStore interface {
	RevenueByDay(ctx context.Context, from, to time.Time) ([]models.RevenueByDay, error)
	TopVehicles(ctx context.Context, from, to time.Time, limit int) ([]models.TopVehicle, error)
	SessionsOverlapping(ctx context.Context, from, to time.Time) ([]models.Session, error)
}

// ReportService produces the reporting views. Read-only; sessions are never
// mutated here.
type ReportService struct {
	store ReportStore
	now   func() time.Time
}

// NewReportService builds service.
func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store, now: time.Now}
}

// RevenueByDay sums charges of closed sessions per exit date. Zero bounds
// default to the last 30 days.
func (s *ReportService) RevenueByDay(ctx context.Context, from, to time.Time) ([]models.RevenueByDay, error) {
	from, to = s.window(from, to)
	return s.store.RevenueByDay(ctx, from, to)
}

// TopVehicles ranks vehicles by total parked time in the period.
func (s *ReportService) TopVehicles(ctx context.Context, from, to time.Time) ([]models.TopVehicle, error) {
	from, to = s.window(from, to)
	return s.store.TopVehicles(ctx, from, to, topVehiclesLimit)
}

// OccupancyByHour counts vehicles present in the lot for each hour slot of
// the period. A session counts toward a slot when its stay intersects it;
// still-open sessions count up to now.
func (s *ReportService) OccupancyByHour(ctx context.Context, from, to time.Time) ([]models.OccupancyPoint, error) {
	from, to = s.window(from, to)
	if to.Sub(from) > time.Duration(maxOccupancySlots)*time.Hour {
		return nil, ErrPeriodTooLarge
	}

	sessions, err := s.store.SessionsOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var points []models.OccupancyPoint
	for slot := from.Truncate(time.Hour); slot.Before(to); slot = slot.Add(time.Hour) {
		slotStart := slot
		if slotStart.Before(from) {
			slotStart = from
		}
		slotEnd := slot.Add(time.Hour)
		if slotEnd.After(to) {
			slotEnd = to
		}

		count := 0
		for _, session := range sessions {
			if session.EntryTime.After(slotEnd) {
				continue
			}
			if session.ExitTime == nil || !session.ExitTime.Before(slotStart) {
				count++
			}
		}
		points = append(points, models.OccupancyPoint{Hour: slot, Vehicles: count})
	}
	return points, nil
}

func (s *ReportService) window(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = s.now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-defaultReportWindow)
	}
	return from.UTC(), to.UTC()
}
