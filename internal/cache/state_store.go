package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/herevemarket/admin_console/internal/models"
)

// Page names used in state keys.
const (
	PageOrders   = "orders"
	PageProducts = "products"
)

// StateStore persists per-session console view state between requests.
// Loading a missing page returns a fresh state.
type StateStore interface {
	LoadOrders(ctx context.Context, sessionID string) (*models.OrdersState, error)
	SaveOrders(ctx context.Context, sessionID string, state *models.OrdersState) error
	LoadProducts(ctx context.Context, sessionID string) (*models.ProductsState, error)
	SaveProducts(ctx context.Context, sessionID string, state *models.ProductsState) error
	Delete(ctx context.Context, sessionID string) error
}

// stateKey returns the key of one page's state, console:state:{session}:{page}.
func stateKey(sessionID, page string) string {
	return fmt.Sprintf("console:state:%s:%s", sessionID, page)
}

// blobStore is the raw storage behind a StateStore.
type blobStore interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	set(ctx context.Context, key string, value []byte) error
	del(ctx context.Context, keys ...string) error
}

// jsonStates implements StateStore over a blobStore.
type jsonStates struct {
	blobs blobStore
}

func (s jsonStates) LoadOrders(ctx context.Context, sessionID string) (*models.OrdersState, error) {
	state := &models.OrdersState{}
	if _, err := s.load(ctx, stateKey(sessionID, PageOrders), state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s jsonStates) SaveOrders(ctx context.Context, sessionID string, state *models.OrdersState) error {
	return s.save(ctx, stateKey(sessionID, PageOrders), state)
}

func (s jsonStates) LoadProducts(ctx context.Context, sessionID string) (*models.ProductsState, error) {
	state := models.NewProductsState()
	if _, err := s.load(ctx, stateKey(sessionID, PageProducts), state); err != nil {
		return nil, err
	}
	state.Normalize()
	return state, nil
}

func (s jsonStates) SaveProducts(ctx context.Context, sessionID string, state *models.ProductsState) error {
	return s.save(ctx, stateKey(sessionID, PageProducts), state)
}

func (s jsonStates) Delete(ctx context.Context, sessionID string) error {
	return s.blobs.del(ctx, stateKey(sessionID, PageOrders), stateKey(sessionID, PageProducts))
}

func (s jsonStates) load(ctx context.Context, key string, dst any) (bool, error) {
	data, found, err := s.blobs.get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode state %s: %w", key, err)
	}
	return true, nil
}

func (s jsonStates) save(ctx context.Context, key string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.blobs.set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}

// RedisStateStore keeps view state in Redis with a sliding TTL.
type RedisStateStore struct {
	jsonStates
}

// NewRedisStateStore creates a RedisStateStore. Every read or write pushes
// the key's expiry ttl into the future.
func NewRedisStateStore(redis *RedisClient, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{jsonStates{blobs: redisBlobs{redis: redis, ttl: ttl}}}
}

type redisBlobs struct {
	redis *RedisClient
	ttl   time.Duration
}

func (b redisBlobs) get(ctx context.Context, key string) ([]byte, bool, error) {
	data, found, err := b.redis.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	if b.ttl > 0 {
		if err := b.redis.Expire(ctx, key, b.ttl); err != nil {
			return nil, false, err
		}
	}
	return data, true, nil
}

func (b redisBlobs) set(ctx context.Context, key string, value []byte) error {
	return b.redis.Set(ctx, key, value, b.ttl)
}

func (b redisBlobs) del(ctx context.Context, keys ...string) error {
	return b.redis.Delete(ctx, keys...)
}
