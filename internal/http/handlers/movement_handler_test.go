package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"parkyard/internal/models"
	"parkyard/internal/pricing"
	"parkyard/internal/service"
)

// memStore is a minimal in-memory store for exercising the handlers
// end-to-end against the real lifecycle service.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	seq      int
}

func (m *memStore) FindActiveByVehicle(_ context.Context, vehicleID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.VehicleID == vehicleID && s.Active {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateIfNoActive(_ context.Context, session *models.Session) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.VehicleID == session.VehicleID && s.Active {
			return nil, models.ErrActiveSessionExists
		}
	}
	m.seq++
	stored := *session
	stored.ID = fmt.Sprintf("sess-%d", m.seq)
	stored.Version = 1
	m.sessions[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) UpdateWithVersionCheck(_ context.Context, session *models.Session, expectedVersion int64) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.sessions[session.ID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if current.Version != expectedVersion {
		return nil, models.ErrVersionMismatch
	}
	updated := *session
	updated.Version = current.Version + 1
	stored := updated
	m.sessions[session.ID] = &stored
	copied := updated
	return &copied, nil
}

func (m *memStore) FindAllActive(_ context.Context, plateFilter string) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Session
	for _, s := range m.sessions {
		if s.Active && (plateFilter == "" || strings.Contains(s.Plate, plateFilter)) {
			out = append(out, *s)
		}
	}
	return out, nil
}

type memRegistry map[string]bool

func (m memRegistry) Exists(_ context.Context, id string) (bool, error) {
	return m[id], nil
}

func newHandlerFixture(t *testing.T) *MovementHandler {
	t.Helper()
	store := &memStore{sessions: make(map[string]*models.Session)}
	registry := memRegistry{"v1": true}

	svc := service.NewLifecycleService(store, registry, pricing.DefaultEngine(), nil, nil, zap.NewNop())
	return NewMovementHandler(svc, zap.NewNop())
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleEntry_OpensSession(t *testing.T) {
	handler := newHandlerFixture(t)

	rec := postJSON(t, handler.HandleEntry, `{"vehicle_id":"v1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body %s", rec.Code, rec.Body)
	}

	var session models.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !session.Active || session.Version != 1 {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestHandleEntry_UnknownVehicleIs404(t *testing.T) {
	handler := newHandlerFixture(t)

	if rec := postJSON(t, handler.HandleEntry, `{"vehicle_id":"ghost"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want 404", rec.Code)
	}
}

func TestHandleEntry_BadRequests(t *testing.T) {
	handler := newHandlerFixture(t)

	if rec := postJSON(t, handler.HandleEntry, `{not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid json: got %d want 400", rec.Code)
	}
	if rec := postJSON(t, handler.HandleEntry, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing vehicle_id: got %d want 400", rec.Code)
	}
}

func TestHandleExit_StatusMapping(t *testing.T) {
	handler := newHandlerFixture(t)

	rec := postJSON(t, handler.HandleEntry, `{"vehicle_id":"v1"}`)
	var session models.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Missing version token is a business-rule error, not a default.
	if rec := postJSON(t, handler.HandleExit, fmt.Sprintf(`{"session_id":%q}`, session.ID)); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing version: got %d want 422", rec.Code)
	}

	// Stale token conflicts.
	if rec := postJSON(t, handler.HandleExit, fmt.Sprintf(`{"session_id":%q,"version":99}`, session.ID)); rec.Code != http.StatusConflict {
		t.Fatalf("stale version: got %d want 409", rec.Code)
	}

	// The matching token closes the session.
	rec = postJSON(t, handler.HandleExit, fmt.Sprintf(`{"session_id":%q,"version":%d}`, session.ID, session.Version))
	if rec.Code != http.StatusOK {
		t.Fatalf("exit: got %d want 200, body %s", rec.Code, rec.Body)
	}
	var closed models.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &closed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if closed.Active || closed.ChargedAmount == nil {
		t.Fatalf("unexpected closed session: %+v", closed)
	}

	// Closing again is a business-rule violation.
	if rec := postJSON(t, handler.HandleExit, fmt.Sprintf(`{"session_id":%q,"version":%d}`, session.ID, closed.Version)); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("already closed: got %d want 422", rec.Code)
	}

	// Unknown session.
	if rec := postJSON(t, handler.HandleExit, `{"session_id":"ghost","version":1}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session: got %d want 404", rec.Code)
	}
}

func TestHandleFee_EstimatesActiveSession(t *testing.T) {
	handler := newHandlerFixture(t)

	rec := postJSON(t, handler.HandleEntry, `{"vehicle_id":"v1"}`)
	var session models.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/yard/fee?session_id="+session.ID, nil)
	feeRec := httptest.NewRecorder()
	handler.HandleFee(feeRec, req)
	if feeRec.Code != http.StatusOK {
		t.Fatalf("fee: got %d want 200, body %s", feeRec.Code, feeRec.Body)
	}

	var payload struct {
		SessionID string `json:"session_id"`
		Amount    string `json:"amount"`
	}
	if err := json.Unmarshal(feeRec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode fee: %v", err)
	}
	if payload.SessionID != session.ID || payload.Amount == "" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
