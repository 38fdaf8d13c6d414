package nonce

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// BadgerStore persists reservations on local disk. It backs the CLI and
// single-node deployments without Redis.
type BadgerStore struct {
	db       *badger.DB
	ttl      time.Duration
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
}

// Compile-time interface compliance check
var _ Store = (*BadgerStore)(nil)

// NewBadgerStore opens (or creates) a reservation database at dataPath
func NewBadgerStore(dataPath string, ttl time.Duration, logger *zap.Logger) (*BadgerStore, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badger.DefaultOptions(absPath)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = true
	opts.NumVersionsToKeep = 1

	return openBadgerStore(opts, ttl, logger)
}

// NewInMemoryBadgerStore opens a non-persistent database
func NewInMemoryBadgerStore(ttl time.Duration, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = &badgerLogger{logger: logger}
	return openBadgerStore(opts, ttl, logger)
}

func openBadgerStore(opts badger.Options, ttl time.Duration, logger *zap.Logger) (*BadgerStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.gcCancel = cancel
	if !opts.InMemory {
		s.gcWg.Add(1)
		go s.runGC(ctx)
	}

	return s, nil
}

func (s *BadgerStore) runGC(ctx context.Context) {
	defer s.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := s.db.RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("badger GC error", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Reserve stores a reserved marker unless a live entry exists
func (s *BadgerStore) Reserve(_ context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := []byte(buildKey(recipient, nonce))

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrNonceAlreadyUsed
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.SetEntry(badger.NewEntry(key, []byte(stateReserved)).WithTTL(s.ttl))
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNonceAlreadyUsed), errors.Is(err, badger.ErrConflict):
		s.logger.Warn("nonce already used or reserved",
			zap.String("recipient", recipient.Hex()),
			zap.String("nonce", nonce.Dec()),
		)
		return ErrNonceAlreadyUsed
	default:
		return fmt.Errorf("failed to reserve nonce: %w", err)
	}
}

// MarkUsed marks a reserved nonce as issued
func (s *BadgerStore) MarkUsed(_ context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := []byte(buildKey(recipient, nonce))

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, []byte(stateUsed)).WithTTL(s.ttl))
	})
	if err != nil {
		return fmt.Errorf("failed to mark nonce as used: %w", err)
	}
	return nil
}

// Release deletes the reservation
func (s *BadgerStore) Release(_ context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := []byte(buildKey(recipient, nonce))

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("failed to release nonce: %w", err)
	}
	return nil
}

// Close stops background GC and closes the database
func (s *BadgerStore) Close() error {
	s.gcCancel()
	s.gcWg.Wait()
	return s.db.Close()
}

// badgerLogger routes badger's logs through zap
type badgerLogger struct {
	logger *zap.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.logger.Error(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.logger.Warn(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.logger.Debug(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.logger.Debug(fmt.Sprintf(format, args...))
}
