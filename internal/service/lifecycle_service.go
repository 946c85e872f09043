package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"parkyard/internal/metrics"
	"parkyard/internal/models"
	"parkyard/internal/pricing"
	redisstore "parkyard/internal/redis"
	"parkyard/internal/ws"
)

// LifecycleService orchestrates the session lifecycle: idempotent entry,
// version-checked exit and live fee inquiry. It holds no cross-request state;
// correctness rests entirely on the store's atomic primitives.
type LifecycleService struct {
	store    SessionStore
	vehicles VehicleRegistry
	pricing  *pricing.Engine
	cache    ActiveSessionCache
	events   EventPublisher
	logger   *zap.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// NewLifecycleService builds the service. cache and events may be nil.
func NewLifecycleService(
	store SessionStore,
	vehicles VehicleRegistry,
	engine *pricing.Engine,
	cache ActiveSessionCache,
	events EventPublisher,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		store:    store,
		vehicles: vehicles,
		pricing:  engine,
		cache:    cache,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Enter opens a session for the vehicle. Idempotent: if the vehicle already
// has an open session, that session is returned unchanged — retried and
// duplicate entry requests are safe, sequentially and under concurrency.
func (s *LifecycleService) Enter(ctx context.Context, vehicleID string) (*models.Session, error) {
	known, err := s.vehicles.Exists(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, models.ErrVehicleNotFound
	}

	existing, err := s.store.FindActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	session := &models.Session{
		VehicleID: vehicleID,
		EntryTime: s.now().UTC(),
		Active:    true,
	}
	created, err := s.store.CreateIfNoActive(ctx, session)
	if errors.Is(err, models.ErrActiveSessionExists) {
		// Lost the insert race. The winner's session is the vehicle's open
		// session; return it instead of failing.
		winner, readErr := s.store.FindActiveByVehicle(ctx, vehicleID)
		if readErr != nil {
			return nil, readErr
		}
		if winner != nil {
			return winner, nil
		}
		// Winner closed between its insert and our read; surface the
		// conflict so the caller retries.
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.cacheOpened(ctx, created)
	s.publish(ws.EventSessionOpened, created)
	metrics.SessionsOpenedTotal.Inc()
	metrics.ActiveSessionsGauge.Inc()

	s.logger.Info("session opened",
		zap.String("session_id", created.ID),
		zap.String("vehicle_id", created.VehicleID),
		zap.Time("entry_time", created.EntryTime),
	)
	return created, nil
}

// Exit closes a session. The version token is mandatory; a stale token means
// the session changed since the caller's read, and the caller must re-fetch
// and decide whether to retry. The manager never overwrites silently.
func (s *LifecycleService) Exit(ctx context.Context, sessionID string, version int64) (*models.Session, error) {
	if version <= 0 {
		return nil, models.ErrMissingVersion
	}

	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, models.ErrSessionNotFound
	}
	if !session.Active {
		return nil, models.ErrSessionClosed
	}
	if session.Version != version {
		return nil, models.ErrVersionMismatch
	}

	exitTime := s.now().UTC()
	if exitTime.Before(session.EntryTime) {
		s.logger.Error("computed exit time precedes entry time",
			zap.String("session_id", session.ID),
			zap.Time("entry_time", session.EntryTime),
			zap.Time("exit_time", exitTime),
		)
		return nil, models.ErrInvalidState
	}

	fee := s.pricing.Fee(session.EntryTime, exitTime)
	session.ExitTime = &exitTime
	session.ChargedAmount = &fee
	session.Active = false

	updated, err := s.store.UpdateWithVersionCheck(ctx, session, version)
	if err != nil {
		return nil, err
	}

	s.cacheClosed(ctx, updated)
	s.publish(ws.EventSessionClosed, updated)
	metrics.SessionsClosedTotal.Inc()
	metrics.ActiveSessionsGauge.Dec()
	metrics.RevenueChargedTotal.Add(fee.InexactFloat64())

	s.logger.Info("session closed",
		zap.String("session_id", updated.ID),
		zap.String("vehicle_id", updated.VehicleID),
		zap.String("charged_amount", fee.String()),
	)
	return updated, nil
}

// Inquire estimates the fee owed by an open session as of now. Read-only: it
// persists nothing and never touches the session's version.
func (s *LifecycleService) Inquire(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	if session == nil {
		return decimal.Zero, models.ErrSessionNotFound
	}
	if !session.Active {
		// Closed sessions already carry a fixed charged amount.
		return decimal.Zero, models.ErrSessionClosed
	}
	return s.pricing.Fee(session.EntryTime, s.now().UTC()), nil
}

// ListActive returns open sessions, optionally filtered by plate. The filter
// gets the same normalization as vehicle registration.
func (s *LifecycleService) ListActive(ctx context.Context, plateFilter string) ([]models.Session, error) {
	return s.store.FindAllActive(ctx, models.NormalizePlate(plateFilter))
}

func (s *LifecycleService) cacheOpened(ctx context.Context, session *models.Session) {
	if s.cache == nil {
		return
	}
	err := s.cache.Save(ctx, redisstore.ActiveSession{
		SessionID: session.ID,
		VehicleID: session.VehicleID,
		Plate:     session.Plate,
		EntryTime: session.EntryTime,
	})
	if err != nil {
		s.logger.Warn("failed to cache active session", zap.Error(err))
	}
}

func (s *LifecycleService) cacheClosed(ctx context.Context, session *models.Session) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, session.VehicleID); err != nil {
		s.logger.Warn("failed to drop active session cache", zap.Error(err))
	}
}

func (s *LifecycleService) publish(event string, session *models.Session) {
	if s.events != nil {
		s.events.Publish(event, session)
	}
}
