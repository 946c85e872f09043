package service

import (
	"context"

	"parkyard/internal/models"
	redisstore "parkyard/internal/redis"
	"parkyard/internal/repository"
)

// SessionStore is the durable session storage the lifecycle relies on. The
// store, not the application, enforces the two atomic guarantees: the
// conditional insert (at most one active session per vehicle) and the
// version-checked conditional update.
type SessionStore interface {
	// FindActiveByVehicle returns nil when the vehicle has no open session.
	FindActiveByVehicle(ctx context.Context, vehicleID string) (*models.Session, error)
	// CreateIfNoActive returns models.ErrActiveSessionExists when a
	// concurrent insert for the same vehicle won the race.
	CreateIfNoActive(ctx context.Context, session *models.Session) (*models.Session, error)
	// GetByID returns nil when the session does not exist.
	GetByID(ctx context.Context, id string) (*models.Session, error)
	// UpdateWithVersionCheck returns models.ErrVersionMismatch on a stale
	// token and assigns a new version on success.
	UpdateWithVersionCheck(ctx context.Context, session *models.Session, expectedVersion int64) (*models.Session, error)
	FindAllActive(ctx context.Context, plateFilter string) ([]models.Session, error)
}

// VehicleRegistry is the minimal vehicle lookup the lifecycle needs.
type VehicleRegistry interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// VehicleStore is the full vehicle persistence surface behind VehicleService.
type VehicleStore interface {
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	ExistsByPlate(ctx context.Context, plate string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	List(ctx context.Context, filter repository.VehicleFilter, offset, limit int) ([]models.Vehicle, int, error)
}

// ActiveSessionCache mirrors open sessions for cheap external reads. Best
// effort; failures are logged, never propagated.
type ActiveSessionCache interface {
	Save(ctx context.Context, session redisstore.ActiveSession) error
	Delete(ctx context.Context, vehicleID string) error
}

// EventPublisher pushes session events to live subscribers.
type EventPublisher interface {
	Publish(event string, data interface{})
}
