package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"parkyard/internal/models"
	"parkyard/internal/repository"
)

const (
	minPlateLength = 5
	maxPlateLength = 10

	defaultPageSize = 20
	maxPageSize     = 100
)

// ErrInvalidPlate rejects plates that normalize to something unusable.
var ErrInvalidPlate = errors.New("plate must be 5 to 10 letters and digits")

// RegisterVehicleInput carries the fields accepted at registration.
type RegisterVehicleInput struct {
	Plate string
	Model *string
	Color *string
	Type  string
}

// UpdateVehicleInput carries the mutable fields; nil means keep current.
type UpdateVehicleInput struct {
	Model *string
	Color *string
	Type  *string
}

// VehiclePage is one page of a filtered vehicle listing.
type VehiclePage struct {
	Items      []models.Vehicle `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// VehicleService manages vehicle registration.
type VehicleService struct {
	store  VehicleStore
	logger *zap.Logger
	now    func() time.Time
}

// NewVehicleService builds service.
func NewVehicleService(store VehicleStore, logger *zap.Logger) *VehicleService {
	return &VehicleService{store: store, logger: logger, now: time.Now}
}

// Register creates a vehicle with a normalized, unique plate.
func (s *VehicleService) Register(ctx context.Context, input RegisterVehicleInput) (*models.Vehicle, error) {
	plate := models.NormalizePlate(input.Plate)
	if !validPlate(plate) {
		return nil, ErrInvalidPlate
	}

	vehicleType := input.Type
	if vehicleType == "" {
		vehicleType = models.VehicleTypeCar
	}
	if !models.ValidVehicleType(vehicleType) {
		return nil, errors.New("unknown vehicle type: " + vehicleType)
	}

	taken, err := s.store.ExistsByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrPlateTaken
	}

	created, err := s.store.Create(ctx, &models.Vehicle{
		Plate: plate,
		Model: input.Model,
		Color: input.Color,
		Type:  vehicleType,
	})
	if err != nil {
		// The unique index may still reject a concurrent duplicate.
		return nil, err
	}

	s.logger.Info("vehicle registered",
		zap.String("vehicle_id", created.ID),
		zap.String("plate", created.Plate),
	)
	return created, nil
}

// Update changes descriptive fields. The plate is immutable.
func (s *VehicleService) Update(ctx context.Context, id string, input UpdateVehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, models.ErrVehicleNotFound
	}

	if input.Model != nil {
		vehicle.Model = input.Model
	}
	if input.Color != nil {
		vehicle.Color = input.Color
	}
	if input.Type != nil {
		if !models.ValidVehicleType(*input.Type) {
			return nil, errors.New("unknown vehicle type: " + *input.Type)
		}
		vehicle.Type = *input.Type
	}

	now := s.now().UTC()
	vehicle.UpdatedAt = &now

	if err := s.store.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Get returns a vehicle by id.
func (s *VehicleService) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, models.ErrVehicleNotFound
	}
	return vehicle, nil
}

// GetByPlate returns a vehicle by plate, applying the usual normalization.
func (s *VehicleService) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	vehicle, err := s.store.GetByPlate(ctx, models.NormalizePlate(plate))
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, models.ErrVehicleNotFound
	}
	return vehicle, nil
}

// List returns a filtered, paginated vehicle listing.
func (s *VehicleService) List(ctx context.Context, filter repository.VehicleFilter, page, pageSize int) (*VehiclePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	filter.Plate = models.NormalizePlate(filter.Plate)

	items, total, err := s.store.List(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return &VehiclePage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func validPlate(plate string) bool {
	if len(plate) < minPlateLength || len(plate) > maxPlateLength {
		return false
	}
	for _, r := range plate {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
