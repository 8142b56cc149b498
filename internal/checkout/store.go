package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/otel"
)

// SessionStore keeps pending orders across the provider redirect. Get
// returns ErrPendingOrderNotFound for an unknown session. Delete of an
// unknown session is not an error.
type SessionStore interface {
	Save(c context.Context, sessionID uuid.UUID, order PendingOrder) error
	Get(c context.Context, sessionID uuid.UUID) (PendingOrder, error)
	Delete(c context.Context, sessionID uuid.UUID) error
}

type RedisSessionStore struct {
	cache  *redis.Client
	prefix string
}

func NewRedisSessionStore(cache *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{cache: cache, prefix: prefix}
}

func (s *RedisSessionStore) key(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s:pendingOrder:%s", s.prefix, sessionID)
}

func (s *RedisSessionStore) Save(c context.Context, sessionID uuid.UUID, order PendingOrder) error {
	c, span := otel.Tracer.Start(c, "checkout RedisSessionStore Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout RedisSessionStore Save").
		Str(log.KeyProcess, "marshaling pending order").
		Str(log.KeyCacheKey, s.key(sessionID)).
		Logger()

	logger.Trace().Msg("marshaling pending order")
	b, err := json.Marshal(order)
	if err != nil {
		err = fmt.Errorf("failed marshaling pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("marshaled pending order")

	logger = logger.With().Str(log.KeyProcess, "saving pending order").Logger()
	logger.Debug().Msg("saving pending order")
	if err := s.cache.Set(c, s.key(sessionID), b, 0).Err(); err != nil {
		err = fmt.Errorf("failed saving pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Debug().Msg("saved pending order")

	return nil
}

func (s *RedisSessionStore) Get(c context.Context, sessionID uuid.UUID) (PendingOrder, error) {
	c, span := otel.Tracer.Start(c, "checkout RedisSessionStore Get")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout RedisSessionStore Get").
		Str(log.KeyProcess, "getting pending order").
		Str(log.KeyCacheKey, s.key(sessionID)).
		Logger()

	logger.Debug().Msg("getting pending order")
	b, err := s.cache.Get(c, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		err = fmt.Errorf("sessionId=%s: %w", sessionID, commonErrors.ErrPendingOrderNotFound)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return PendingOrder{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed getting pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return PendingOrder{}, err
	}
	logger.Debug().Msg("got pending order")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling pending order").Logger()
	logger.Trace().Msg("unmarshaling pending order")
	order := PendingOrder{}
	if err := json.Unmarshal(b, &order); err != nil {
		err = fmt.Errorf("failed unmarshaling pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return PendingOrder{}, err
	}
	logger.Trace().Msg("unmarshaled pending order")

	return order, nil
}

func (s *RedisSessionStore) Delete(c context.Context, sessionID uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "checkout RedisSessionStore Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout RedisSessionStore Delete").
		Str(log.KeyProcess, "deleting pending order").
		Str(log.KeyCacheKey, s.key(sessionID)).
		Logger()

	logger.Debug().Msg("deleting pending order")
	if err := s.cache.Del(c, s.key(sessionID)).Err(); err != nil {
		err = fmt.Errorf("failed deleting pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Debug().Msg("deleted pending order")

	return nil
}

// MemorySessionStore keeps pending orders for the life of the process. It
// stores the encoded form so both stores round trip the same way.
type MemorySessionStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{orders: map[uuid.UUID][]byte{}}
}

func (s *MemorySessionStore) Save(c context.Context, sessionID uuid.UUID, order PendingOrder) error {
	b, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed marshaling pending order with error=%w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[sessionID] = b
	return nil
}

func (s *MemorySessionStore) Get(c context.Context, sessionID uuid.UUID) (PendingOrder, error) {
	s.mu.Lock()
	b, ok := s.orders[sessionID]
	s.mu.Unlock()
	if !ok {
		return PendingOrder{}, fmt.Errorf("sessionId=%s: %w", sessionID, commonErrors.ErrPendingOrderNotFound)
	}

	order := PendingOrder{}
	if err := json.Unmarshal(b, &order); err != nil {
		return PendingOrder{}, fmt.Errorf("failed unmarshaling pending order with error=%w", err)
	}
	return order, nil
}

func (s *MemorySessionStore) Delete(c context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, sessionID)
	return nil
}
