package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"parkyard/internal/models"
	"parkyard/internal/repository"
)

type fakeVehicleStore struct {
	mu       sync.Mutex
	vehicles map[string]*models.Vehicle
	seq      int
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{vehicles: make(map[string]*models.Vehicle)}
}

func (f *fakeVehicleStore) Create(_ context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vehicles {
		if v.Plate == vehicle.Plate {
			return nil, models.ErrPlateTaken
		}
	}
	f.seq++
	stored := *vehicle
	stored.ID = fmt.Sprintf("veh-%d", f.seq)
	f.vehicles[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeVehicleStore) ExistsByPlate(_ context.Context, plate string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vehicles {
		if v.Plate == plate {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVehicleStore) GetByID(_ context.Context, id string) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.vehicles[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeVehicleStore) GetByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vehicles {
		if v.Plate == plate {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVehicleStore) Update(_ context.Context, vehicle *models.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[vehicle.ID]; !ok {
		return models.ErrVehicleNotFound
	}
	stored := *vehicle
	f.vehicles[vehicle.ID] = &stored
	return nil
}

func (f *fakeVehicleStore) List(_ context.Context, filter repository.VehicleFilter, offset, limit int) ([]models.Vehicle, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Vehicle
	for _, v := range f.vehicles {
		if filter.Plate != "" && !strings.Contains(v.Plate, filter.Plate) {
			continue
		}
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		matched = append(matched, *v)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Plate < matched[j].Plate })

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func newVehicleFixture() (*VehicleService, *fakeVehicleStore) {
	store := newFakeVehicleStore()
	return NewVehicleService(store, zap.NewNop()), store
}

func str(s string) *string { return &s }

func TestRegister_NormalizesPlate(t *testing.T) {
	svc, _ := newVehicleFixture()

	vehicle, err := svc.Register(context.Background(), RegisterVehicleInput{Plate: " ab c-12 3 "})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if vehicle.Plate != "ABC123" {
		t.Fatalf("plate: got %s want ABC123", vehicle.Plate)
	}
	if vehicle.Type != models.VehicleTypeCar {
		t.Fatalf("default type: got %s want car", vehicle.Type)
	}
}

func TestRegister_RejectsDuplicatePlate(t *testing.T) {
	svc, _ := newVehicleFixture()

	if _, err := svc.Register(context.Background(), RegisterVehicleInput{Plate: "ABC1234"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Same plate in a different raw form.
	_, err := svc.Register(context.Background(), RegisterVehicleInput{Plate: "abc-12 34"})
	if !errors.Is(err, models.ErrPlateTaken) {
		t.Fatalf("got %v want ErrPlateTaken", err)
	}
}

func TestRegister_RejectsInvalidPlates(t *testing.T) {
	svc, _ := newVehicleFixture()

	for _, plate := range []string{"", "AB", "ABC/1234", "WAYTOOLONGPLATE99"} {
		if _, err := svc.Register(context.Background(), RegisterVehicleInput{Plate: plate}); !errors.Is(err, ErrInvalidPlate) {
			t.Fatalf("plate %q: got %v want ErrInvalidPlate", plate, err)
		}
	}
}

func TestRegister_RejectsUnknownType(t *testing.T) {
	svc, _ := newVehicleFixture()

	if _, err := svc.Register(context.Background(), RegisterVehicleInput{Plate: "ABC1234", Type: "boat"}); err == nil {
		t.Fatal("unknown vehicle type must be rejected")
	}
}

func TestUpdate_ChangesDescriptiveFields(t *testing.T) {
	svc, _ := newVehicleFixture()
	created, _ := svc.Register(context.Background(), RegisterVehicleInput{Plate: "ABC1234", Model: str("Corolla")})

	updated, err := svc.Update(context.Background(), created.ID, UpdateVehicleInput{
		Color: str("blue"),
		Type:  str(models.VehicleTypeTruck),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Color == nil || *updated.Color != "blue" {
		t.Fatalf("color: got %v", updated.Color)
	}
	if updated.Type != models.VehicleTypeTruck {
		t.Fatalf("type: got %s", updated.Type)
	}
	if updated.Model == nil || *updated.Model != "Corolla" {
		t.Fatal("untouched fields must keep their values")
	}
	if updated.Plate != "ABC1234" {
		t.Fatal("plate is immutable")
	}
	if updated.UpdatedAt == nil {
		t.Fatal("update must stamp updated_at")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newVehicleFixture()

	if _, err := svc.Update(context.Background(), "ghost", UpdateVehicleInput{}); !errors.Is(err, models.ErrVehicleNotFound) {
		t.Fatalf("got %v want ErrVehicleNotFound", err)
	}
}

func TestGetByPlate_Normalizes(t *testing.T) {
	svc, _ := newVehicleFixture()
	created, _ := svc.Register(context.Background(), RegisterVehicleInput{Plate: "ABC1234"})

	found, err := svc.GetByPlate(context.Background(), "abc-12 34")
	if err != nil {
		t.Fatalf("get by plate: %v", err)
	}
	if found.ID != created.ID {
		t.Fatal("lookup must hit the registered vehicle")
	}
}

func TestList_Pagination(t *testing.T) {
	svc, _ := newVehicleFixture()
	for i := 0; i < 5; i++ {
		if _, err := svc.Register(context.Background(), RegisterVehicleInput{Plate: fmt.Sprintf("AAA100%d", i)}); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	page, err := svc.List(context.Background(), repository.VehicleFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 {
		t.Fatalf("totals: got %d/%d want 5/3", page.Total, page.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Fatalf("page size: got %d want 2", len(page.Items))
	}
	if page.Items[0].Plate != "AAA1002" {
		t.Fatalf("second page must start at the third plate, got %s", page.Items[0].Plate)
	}
}

func TestList_NormalizesPlateFilter(t *testing.T) {
	svc, _ := newVehicleFixture()
	svc.Register(context.Background(), RegisterVehicleInput{Plate: "ABC1234"})
	svc.Register(context.Background(), RegisterVehicleInput{Plate: "XYZ9876"})

	page, err := svc.List(context.Background(), repository.VehicleFilter{Plate: "ab-c"}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Plate != "ABC1234" {
		t.Fatalf("filter must be normalized, got %+v", page.Items)
	}
}
