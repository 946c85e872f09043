package repository

import (
	"context"
	"database/sql"
	"time"

	"parkyard/internal/models"
)

// ReportRepository runs the aggregation queries behind the reporting
// endpoints. Read-only; never touches session state.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository returns repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// RevenueByDay sums charged amounts of sessions closed within the period,
// grouped by exit date, most recent day first.
func (r *ReportRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]models.RevenueByDay, error) {
	const query = `
		SELECT date_trunc('day', exit_time) AS day, COUNT(*), SUM(charged_amount)
		FROM parking_sessions
		WHERE NOT active
		  AND exit_time >= $1 AND exit_time <= $2
		  AND charged_amount IS NOT NULL
		GROUP BY day
		ORDER BY day DESC
	`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, storeErr("revenue by day", err)
	}
	defer rows.Close()

	var result []models.RevenueByDay
	for rows.Next() {
		var entry models.RevenueByDay
		if err := rows.Scan(&entry.Date, &entry.Sessions, &entry.Total); err != nil {
			return nil, storeErr("revenue by day", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("revenue by day", err)
	}
	return result, nil
}

// TopVehicles ranks vehicles by total parked minutes across sessions closed
// within the period.
func (r *ReportRepository) TopVehicles(ctx context.Context, from, to time.Time, limit int) ([]models.TopVehicle, error) {
	const query = `
		SELECT v.plate, v.model,
		       FLOOR(SUM(EXTRACT(EPOCH FROM (s.exit_time - s.entry_time))) / 60)::bigint,
		       COUNT(*)
		FROM parking_sessions s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE NOT s.active
		  AND s.exit_time >= $1 AND s.exit_time <= $2
		GROUP BY v.id, v.plate, v.model
		ORDER BY 3 DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, storeErr("top vehicles", err)
	}
	defer rows.Close()

	var result []models.TopVehicle
	for rows.Next() {
		var (
			entry models.TopVehicle
			model sql.NullString
		)
		if err := rows.Scan(&entry.Plate, &model, &entry.TotalMinutes, &entry.Sessions); err != nil {
			return nil, storeErr("top vehicles", err)
		}
		if model.Valid {
			entry.Model = &model.String
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("top vehicles", err)
	}
	return result, nil
}

// SessionsOverlapping returns all sessions whose stay intersects the period,
// including still-open ones. The occupancy report slices these per hour.
func (r *ReportRepository) SessionsOverlapping(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM parking_sessions s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.entry_time <= $2
		  AND (s.exit_time IS NULL OR s.exit_time >= $1)
		ORDER BY s.entry_time
	`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, storeErr("sessions overlapping", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, storeErr("sessions overlapping", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("sessions overlapping", err)
	}
	return sessions, nil
}
