package session

import (
	"context"

	"nordclean/internal/storage/redis"
)

type StateStorage interface {
	GetSelectionState(ctx context.Context, sessionID string) (*redis.SelectionState, error)
	UpdateSelectionState(ctx context.Context, sessionID string, change redis.StateChange) (*redis.SelectionState, error)
	DropSelectionState(ctx context.Context, sessionID string) error
}

var _ StateStorage = (*redis.Storage)(nil)
