package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActiveSession is the cached view of an open session, keyed by vehicle.
// Advisory only: lifecycle decisions always go to the durable store.
type ActiveSession struct {
	SessionID string    `json:"session_id"`
	VehicleID string    `json:"vehicle_id"`
	Plate     string    `json:"plate"`
	EntryTime time.Time `json:"entry_time"`
}

// Store manages the active session cache.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(vehicleID string) string {
	return fmt.Sprintf("yard:active:%s", vehicleID)
}

// Save caches the open session for its vehicle.
func (s *Store) Save(ctx context.Context, session ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.VehicleID), data, s.ttl).Err()
}

// Get returns the cached session for a vehicle.
func (s *Store) Get(ctx context.Context, vehicleID string) (*ActiveSession, error) {
	result, err := s.client.Get(ctx, s.key(vehicleID)).Result()
	if err != nil {
		return nil, err
	}
	var session ActiveSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes the cached session for a vehicle.
func (s *Store) Delete(ctx context.Context, vehicleID string) error {
	return s.client.Del(ctx, s.key(vehicleID)).Err()
}
