package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"parkyard/internal/models"
)

// uniqueViolation is the postgres error code raised when the partial unique
// index over (vehicle_id) WHERE active rejects a second open session.
const uniqueViolation = "23505"

// SessionRepository persists parking sessions. Both correctness-critical
// operations are pushed into the storage engine: the conditional insert rides
// on the partial unique index and the conditional update is a single
// version-checked UPDATE.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	s.id, s.vehicle_id, v.plate, s.entry_time, s.exit_time, s.charged_amount,
	s.active, s.version, s.created_at, s.updated_at`

// FindActiveByVehicle returns the open session for a vehicle, or nil when the
// vehicle is not in the lot. The uniqueness invariant guarantees at most one.
func (r *SessionRepository) FindActiveByVehicle(ctx context.Context, vehicleID string) (*models.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM parking_sessions s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.vehicle_id = $1 AND s.active
	`
	session, err := scanSession(r.db.QueryRowContext(ctx, query, vehicleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("find active session", err)
	}
	return session, nil
}

// CreateIfNoActive inserts a new open session unless the vehicle already has
// one. A race lost to a concurrent insert surfaces as ErrActiveSessionExists
// so the caller can recover by re-reading the winner.
func (r *SessionRepository) CreateIfNoActive(ctx context.Context, session *models.Session) (*models.Session, error) {
	const query = `
		WITH created AS (
			INSERT INTO parking_sessions (vehicle_id, entry_time, active, version, created_at)
			VALUES ($1, $2, TRUE, 1, NOW())
			RETURNING id, vehicle_id, entry_time, exit_time, charged_amount, active, version, created_at, updated_at
		)
		SELECT s.id, s.vehicle_id, v.plate, s.entry_time, s.exit_time, s.charged_amount,
		       s.active, s.version, s.created_at, s.updated_at
		FROM created s
		JOIN vehicles v ON v.id = s.vehicle_id
	`
	created, err := scanSession(r.db.QueryRowContext(ctx, query, session.VehicleID, session.EntryTime))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, models.ErrActiveSessionExists
		}
		return nil, storeErr("create session", err)
	}
	return created, nil
}

// GetByID returns a session by id, or nil when it does not exist.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM parking_sessions s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.id = $1
	`
	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get session", err)
	}
	return session, nil
}

// UpdateWithVersionCheck writes the session's terminal fields only if the
// stored version still equals expectedVersion. The compare-and-swap happens
// inside the single UPDATE; a stale token changes nothing and yields
// ErrVersionMismatch.
func (r *SessionRepository) UpdateWithVersionCheck(ctx context.Context, session *models.Session, expectedVersion int64) (*models.Session, error) {
	const query = `
		UPDATE parking_sessions
		SET exit_time = $2,
		    charged_amount = $3,
		    active = $4,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND version = $5
		RETURNING version, updated_at
	`
	var amount decimal.NullDecimal
	if session.ChargedAmount != nil {
		amount = decimal.NullDecimal{Decimal: *session.ChargedAmount, Valid: true}
	}

	updated := *session
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query,
		session.ID,
		session.ExitTime,
		amount,
		session.Active,
		expectedVersion,
	).Scan(&updated.Version, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, session.ID)
		}
		return nil, storeErr("update session", err)
	}
	if updatedAt.Valid {
		updated.UpdatedAt = &updatedAt.Time
	}
	return &updated, nil
}

// classifyMissedUpdate distinguishes a vanished row from a stale version.
func (r *SessionRepository) classifyMissedUpdate(ctx context.Context, id string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM parking_sessions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return storeErr("update session", err)
	}
	if !exists {
		return models.ErrSessionNotFound
	}
	return models.ErrVersionMismatch
}

// FindAllActive lists open sessions, optionally narrowed to plates containing
// the already-normalized filter.
func (r *SessionRepository) FindAllActive(ctx context.Context, plateFilter string) ([]models.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM parking_sessions s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.active AND ($1 = '' OR v.plate LIKE '%' || $1 || '%')
		ORDER BY s.entry_time
	`
	rows, err := r.db.QueryContext(ctx, query, plateFilter)
	if err != nil {
		return nil, storeErr("list active sessions", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, storeErr("list active sessions", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list active sessions", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		session   models.Session
		exitTime  sql.NullTime
		amount    decimal.NullDecimal
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&session.ID,
		&session.VehicleID,
		&session.Plate,
		&session.EntryTime,
		&exitTime,
		&amount,
		&session.Active,
		&session.Version,
		&session.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if exitTime.Valid {
		session.ExitTime = &exitTime.Time
	}
	if amount.Valid {
		session.ChargedAmount = &amount.Decimal
	}
	if updatedAt.Valid {
		session.UpdatedAt = &updatedAt.Time
	}
	return &session, nil
}

// storeErr wraps transient connectivity failures as ErrStoreUnavailable so
// callers can retry with backoff; everything else passes through wrapped.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w", op, models.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
