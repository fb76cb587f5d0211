package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"nordclean/internal/pricing"
	"nordclean/internal/storage/redis"
)

func setupManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(redis.New(client, time.Hour), zaptest.NewLogger(t)), mr
}

func TestManager_NewSessionGetsDefault(t *testing.T) {
	m, _ := setupManager(t)

	s, err := m.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, DefaultSelection(), s)
}

func TestManager_Flow(t *testing.T) {
	m, mr := setupManager(t)
	ctx := context.Background()

	s, err := m.SetHomeSize(ctx, "v1", "189")
	require.NoError(t, err)
	assert.Equal(t, pricing.Price(1358), s.Price)

	s, err = m.SetFrequency(ctx, "v1", "bi-weekly")
	require.NoError(t, err)
	assert.Equal(t, pricing.Price(1388), s.Price)

	s, err = m.SelectCleaningType(ctx, "v1", "flyttstadning")
	require.NoError(t, err)
	assert.Equal(t, pricing.OneTime, s.Frequency)
	assert.Equal(t, pricing.Price(5288), s.Price)

	s, err = m.SetHomeSize(ctx, "v1", "201")
	require.NoError(t, err)
	assert.True(t, s.Price.QuoteRequired())

	// frequency cannot be changed away from one-time for move-out
	s, err = m.SetFrequency(ctx, "v1", "weekly")
	require.NoError(t, err)
	assert.Equal(t, pricing.OneTime, s.Frequency)

	got, err := m.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.True(t, mr.Exists("state:v1"))

	require.NoError(t, m.Reset(ctx, "v1"))
	got, err = m.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSelection(), got)
}

func TestManager_UnknownCleaningType(t *testing.T) {
	m, _ := setupManager(t)

	_, err := m.SelectCleaningType(context.Background(), "v1", "fonsterputs")
	assert.ErrorIs(t, err, ErrUnknownCleaningType)
}

func TestManager_UnknownStoredTypeFallsBack(t *testing.T) {
	m, mr := setupManager(t)
	require.NoError(t, mr.Set("state:v1", `{"cleaning_type":"x","frequency":"weekly","home_size":"10"}`))

	s, err := m.Get(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSelection(), s)
}

type failingStorage struct{}

func (failingStorage) GetSelectionState(context.Context, string) (*redis.SelectionState, error) {
	return nil, errors.New("connection refused")
}

func (failingStorage) UpdateSelectionState(context.Context, string, redis.StateChange) (*redis.SelectionState, error) {
	return nil, errors.New("connection refused")
}

func (failingStorage) DropSelectionState(context.Context, string) error {
	return errors.New("connection refused")
}

func TestManager_StorageErrors(t *testing.T) {
	m := New(failingStorage{}, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := m.Get(ctx, "v1")
	assert.ErrorContains(t, err, "GetSelectionState")

	_, err = m.SetHomeSize(ctx, "v1", "10")
	assert.ErrorContains(t, err, "UpdateSelectionState")

	assert.ErrorContains(t, m.Reset(ctx, "v1"), "DropSelectionState")
}

// interleavingStorage runs `between` once, after the first change has read the
// stored state and before its write is committed.
type interleavingStorage struct {
	*redis.Storage
	fired   bool
	between func()
}

func (s *interleavingStorage) UpdateSelectionState(ctx context.Context, sessionID string, change redis.StateChange) (*redis.SelectionState, error) {
	return s.Storage.UpdateSelectionState(ctx, sessionID, func(current *redis.SelectionState) (*redis.SelectionState, error) {
		next, err := change(current)
		if !s.fired {
			s.fired = true
			s.between()
		}
		return next, err
	})
}

func TestManager_OverlappingUpdatesKeepBothChanges(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	storage := &interleavingStorage{Storage: redis.New(client, time.Hour)}
	m := New(storage, zaptest.NewLogger(t))

	storage.between = func() {
		s, err := m.SetFrequency(ctx, "v1", "bi-weekly")
		require.NoError(t, err)
		assert.Equal(t, pricing.Price(695), s.Price)
	}

	s, err := m.SetHomeSize(ctx, "v1", "150")
	require.NoError(t, err)
	assert.Equal(t, pricing.BiWeekly, s.Frequency)
	assert.Equal(t, pricing.Price(1388), s.Price)

	got, err := m.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, pricing.BiWeekly, got.Frequency)
	assert.Equal(t, "150", got.HomeSize)
	assert.Equal(t, pricing.Price(1388), got.Price)
}

func TestManager_ConcurrentUpdates(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := m.SetHomeSize(ctx, "v1", "120")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := m.SetFrequency(ctx, "v1", "bi-weekly")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "120", got.HomeSize)
	assert.Equal(t, pricing.BiWeekly, got.Frequency)
	assert.Equal(t, pricing.Price(1157), got.Price)
}
