package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nordclean/internal/pricing"
	"nordclean/internal/storage/redis"

	"go.uber.org/zap"
)

// Manager keeps each visitor's selection in storage and reprices it after
// every change.
type Manager struct {
	storage StateStorage
	logger  *zap.Logger
	now     func() time.Time
}

func New(storage StateStorage, logger *zap.Logger) *Manager {
	return &Manager{storage: storage, logger: logger, now: time.Now}
}

// Get returns the visitor's selection, or the default one for a new session.
func (m *Manager) Get(ctx context.Context, sessionID string) (Selection, error) {
	state, err := m.storage.GetSelectionState(ctx, sessionID)
	if errors.Is(err, redis.ErrStateNotFound) {
		return DefaultSelection(), nil
	}
	if err != nil {
		return Selection{}, fmt.Errorf("storage.GetSelectionState failed: %w", err)
	}
	return fromState(state), nil
}

func (m *Manager) SelectCleaningType(ctx context.Context, sessionID string, raw string) (Selection, error) {
	t, ok := pricing.ParseCleaningType(raw)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownCleaningType, raw)
	}
	return m.update(ctx, sessionID, func(s Selection) Selection {
		return s.WithCleaningType(t)
	})
}

// SetFrequency applies f; unrecognised values and move-out cleaning fall back to one-time.
func (m *Manager) SetFrequency(ctx context.Context, sessionID string, raw string) (Selection, error) {
	f, _ := pricing.ParseFrequency(raw)
	return m.update(ctx, sessionID, func(s Selection) Selection {
		return s.WithFrequency(f)
	})
}

func (m *Manager) SetHomeSize(ctx context.Context, sessionID string, raw string) (Selection, error) {
	return m.update(ctx, sessionID, func(s Selection) Selection {
		return s.WithHomeSize(raw)
	})
}

func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	if err := m.storage.DropSelectionState(ctx, sessionID); err != nil {
		return fmt.Errorf("storage.DropSelectionState failed: %w", err)
	}
	return nil
}

// update runs change against the stored selection atomically; on a conflict
// with another request for the same session it is re-applied to the newer state.
func (m *Manager) update(ctx context.Context, sessionID string, change func(Selection) Selection) (Selection, error) {
	var next Selection
	_, err := m.storage.UpdateSelectionState(ctx, sessionID, func(state *redis.SelectionState) (*redis.SelectionState, error) {
		current := DefaultSelection()
		if state != nil {
			current = fromState(state)
		}
		next = change(current).Recompute()
		return m.toState(next), nil
	})
	if err != nil {
		return Selection{}, fmt.Errorf("storage.UpdateSelectionState failed: %w", err)
	}

	m.logger.Debug("Selection updated",
		zap.String("session_id", sessionID),
		zap.String("cleaning_type", string(next.CleaningType)),
		zap.String("frequency", string(next.Frequency)),
		zap.String("home_size", next.HomeSize),
		zap.Stringer("price", next.Price))

	return next, nil
}

func (m *Manager) toState(s Selection) *redis.SelectionState {
	state := &redis.SelectionState{
		CleaningType:  string(s.CleaningType),
		Frequency:     string(s.Frequency),
		HomeSize:      s.HomeSize,
		QuoteRequired: s.Price.QuoteRequired(),
		UpdatedAt:     m.now().UTC(),
	}
	if kr, ok := s.Price.Amount(); ok {
		state.Price = &kr
	}
	return state
}

// fromState rebuilds a selection. The stored price is ignored and recomputed
// from the inputs.
func fromState(state *redis.SelectionState) Selection {
	t, ok := pricing.ParseCleaningType(state.CleaningType)
	if !ok {
		return DefaultSelection()
	}
	f, _ := pricing.ParseFrequency(state.Frequency)

	return Selection{
		CleaningType: t,
		Frequency:    pricing.NormalizeFrequency(t, f),
		HomeSize:     state.HomeSize,
	}.Recompute()
}
