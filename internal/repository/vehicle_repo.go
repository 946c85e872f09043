package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"parkyard/internal/models"
)

// VehicleRepository handles vehicle registration data. It doubles as the
// vehicle registry consulted by the session lifecycle.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, plate, model, color, type, created_at, updated_at`

// Create inserts a vehicle. The plate must already be normalized; a duplicate
// plate surfaces as ErrPlateTaken.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	const query = `
		INSERT INTO vehicles (plate, model, color, type, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	created := *vehicle
	err := r.db.QueryRowContext(ctx, query,
		vehicle.Plate,
		vehicle.Model,
		vehicle.Color,
		vehicle.Type,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, models.ErrPlateTaken
		}
		return nil, storeErr("create vehicle", err)
	}
	return &created, nil
}

// Exists reports whether a vehicle with the given id is registered.
func (r *VehicleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, storeErr("vehicle exists", err)
	}
	return exists, nil
}

// ExistsByPlate reports whether a vehicle with the given normalized plate is
// registered.
func (r *VehicleRepository) ExistsByPlate(ctx context.Context, plate string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE plate = $1)`, plate).Scan(&exists)
	if err != nil {
		return false, storeErr("vehicle exists by plate", err)
	}
	return exists, nil
}

// GetByID returns a vehicle by id, or nil when it does not exist.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return r.get(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
}

// GetByPlate returns a vehicle by normalized plate, or nil when it does not
// exist.
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	return r.get(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE plate = $1`, plate)
}

func (r *VehicleRepository) get(ctx context.Context, query, arg string) (*models.Vehicle, error) {
	vehicle, err := scanVehicle(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get vehicle", err)
	}
	return vehicle, nil
}

// Update writes the mutable descriptive fields. The plate never changes.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	const query = `
		UPDATE vehicles
		SET model = $2, color = $3, type = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, vehicle.ID, vehicle.Model, vehicle.Color, vehicle.Type)
	if err != nil {
		return storeErr("update vehicle", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeErr("update vehicle", err)
	}
	if affected == 0 {
		return models.ErrVehicleNotFound
	}
	return nil
}

// VehicleFilter narrows List results. String filters are substring matches;
// the plate filter must already be normalized.
type VehicleFilter struct {
	Plate string
	Model string
	Color string
	Type  string
}

// List returns a page of vehicles plus the total match count.
func (r *VehicleRepository) List(ctx context.Context, filter VehicleFilter, offset, limit int) ([]models.Vehicle, int, error) {
	where, args := buildVehicleFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM vehicles` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("count vehicles", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM vehicles%s ORDER BY plate LIMIT $%d OFFSET $%d`,
		vehicleColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storeErr("list vehicles", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, storeErr("list vehicles", err)
		}
		vehicles = append(vehicles, *vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("list vehicles", err)
	}
	return vehicles, total, nil
}

func buildVehicleFilter(filter VehicleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Plate != "" {
		add(`plate LIKE '%%' || $%d || '%%'`, filter.Plate)
	}
	if filter.Model != "" {
		add(`model ILIKE '%%' || $%d || '%%'`, filter.Model)
	}
	if filter.Color != "" {
		add(`color ILIKE '%%' || $%d || '%%'`, filter.Color)
	}
	if filter.Type != "" {
		add(`type = $%d`, filter.Type)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanVehicle(row rowScanner) (*models.Vehicle, error) {
	var (
		vehicle   models.Vehicle
		model     sql.NullString
		color     sql.NullString
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&vehicle.ID,
		&vehicle.Plate,
		&model,
		&color,
		&vehicle.Type,
		&vehicle.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if model.Valid {
		vehicle.Model = &model.String
	}
	if color.Valid {
		vehicle.Color = &color.String
	}
	if updatedAt.Valid {
		vehicle.UpdatedAt = &updatedAt.Time
	}
	return &vehicle, nil
}
