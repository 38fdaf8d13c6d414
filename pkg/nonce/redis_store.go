package nonce

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// keyPrefix is the Redis key prefix for nonce reservations
	keyPrefix = "permission:nonce"

	stateReserved = "reserved"
	stateUsed     = "used"
)

// RedisStore implements Store interface using Redis
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// Compile-time interface compliance check
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-based nonce store with default TTL
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return NewRedisStoreWithTTL(client, DefaultTTL, logger)
}

// NewRedisStoreWithTTL creates a new Redis-based nonce store with custom TTL
func NewRedisStoreWithTTL(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// buildKey creates a Redis key from recipient and nonce
// Format: permission:nonce:{lowercase_address}:{decimal_nonce}
func buildKey(recipient common.Address, nonce *uint256.Int) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, strings.ToLower(recipient.Hex()), nonce.Dec())
}

// Reserve attempts to reserve a nonce using SETNX
func (s *RedisStore) Reserve(ctx context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := buildKey(recipient, nonce)

	// SETNX with TTL - only succeeds if key doesn't exist
	ok, err := s.client.SetNX(ctx, key, stateReserved, s.ttl).Result()
	if err != nil {
		s.logger.Error("failed to reserve nonce",
			zap.String("recipient", recipient.Hex()),
			zap.String("nonce", nonce.Dec()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to reserve nonce: %w", err)
	}

	if !ok {
		s.logger.Warn("nonce already used or reserved",
			zap.String("recipient", recipient.Hex()),
			zap.String("nonce", nonce.Dec()),
		)
		return ErrNonceAlreadyUsed
	}

	s.logger.Debug("nonce reserved",
		zap.String("recipient", recipient.Hex()),
		zap.String("nonce", nonce.Dec()),
	)
	return nil
}

// MarkUsed marks a reserved nonce as used
func (s *RedisStore) MarkUsed(ctx context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := buildKey(recipient, nonce)

	err := s.client.Set(ctx, key, stateUsed, s.ttl).Err()
	if err != nil {
		s.logger.Error("failed to mark nonce as used",
			zap.String("recipient", recipient.Hex()),
			zap.String("nonce", nonce.Dec()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to mark nonce as used: %w", err)
	}

	s.logger.Debug("nonce marked as used",
		zap.String("recipient", recipient.Hex()),
		zap.String("nonce", nonce.Dec()),
	)
	return nil
}

// Release releases a reserved nonce, allowing retry
func (s *RedisStore) Release(ctx context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := buildKey(recipient, nonce)

	err := s.client.Del(ctx, key).Err()
	if err != nil {
		s.logger.Error("failed to release nonce",
			zap.String("recipient", recipient.Hex()),
			zap.String("nonce", nonce.Dec()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to release nonce: %w", err)
	}

	s.logger.Debug("nonce released",
		zap.String("recipient", recipient.Hex()),
		zap.String("nonce", nonce.Dec()),
	)
	return nil
}
