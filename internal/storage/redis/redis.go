package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultStateTTL  = 24 * time.Hour
	maxUpdateRetries = 20
)

var (
	// ErrStateNotFound is returned when a session has no stored selection.
	ErrStateNotFound = errors.New("selection state not found")
	// ErrStateConflict is returned when an update kept losing to concurrent writers.
	ErrStateConflict = errors.New("selection state changed concurrently")
)

// StateChange derives the next state from the stored one. current is nil when
// the session has no state yet. It may run more than once.
type StateChange func(current *SelectionState) (*SelectionState, error)

type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Storage {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) SetSelectionState(ctx context.Context, sessionID string, state *SelectionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return s.client.Set(ctx, buildStateKey(sessionID), data, s.ttl).Err()
}

func (s *Storage) GetSelectionState(ctx context.Context, sessionID string) (*SelectionState, error) {
	return decodeState(s.client.Get(ctx, buildStateKey(sessionID)).Bytes())
}

// UpdateSelectionState applies change under WATCH so a concurrent write to the
// same session makes the transaction fail and change run again on fresh state.
func (s *Storage) UpdateSelectionState(ctx context.Context, sessionID string, change StateChange) (*SelectionState, error) {
	key := buildStateKey(sessionID)

	var updated *SelectionState
	txf := func(tx *redis.Tx) error {
		current, err := decodeState(tx.Get(ctx, key).Bytes())
		if errors.Is(err, ErrStateNotFound) {
			current = nil
		} else if err != nil {
			return err
		}

		next, err := change(current)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal state: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = next
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrStateConflict
}

func decodeState(data []byte, err error) (*SelectionState, error) {
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	var state SelectionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal failure: %w", err)
	}
	return &state, nil
}

func (s *Storage) DropSelectionState(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, buildStateKey(sessionID)).Err()
}

func buildStateKey(sessionID string) string {
	return fmt.Sprintf("state:%s", sessionID)
}
