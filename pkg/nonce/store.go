package nonce

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	// DefaultTTL is the default reservation lifetime
	DefaultTTL = 15 * time.Minute
)

// Oracle reports the nonce the verifying contract currently expects for a recipient
type Oracle interface {
	// GetNonce returns the current on-chain nonce for recipient
	GetNonce(ctx context.Context, recipient common.Address) (*uint256.Int, error)
}

// Store tracks which (recipient, nonce) pairs already have a live authorization.
// Implementations can use Redis, in-memory, or other backends
type Store interface {
	// Reserve attempts to reserve a nonce for recipient
	// Returns ErrNonceAlreadyUsed if nonce is already used or reserved
	Reserve(ctx context.Context, recipient common.Address, nonce *uint256.Int) error

	// MarkUsed marks a reserved nonce as issued (after successful signing)
	MarkUsed(ctx context.Context, recipient common.Address, nonce *uint256.Int) error

	// Release releases a reserved nonce (on signing failure, allows retry)
	Release(ctx context.Context, recipient common.Address, nonce *uint256.Int) error
}

// Error definitions
var (
	ErrNonceAlreadyUsed = errors.New("nonce already used or reserved")
	ErrNilNonce         = errors.New("nonce is required")
)
