package authorization

import (
	"context"

	"github.com/ahwlsqja/permission-mw-signer/pkg/chain"
	"github.com/ethereum/go-ethereum/core/types"
)

// Submitter sends a signed registration to the registrar contract
type Submitter interface {
	Register(ctx context.Context, reg chain.Registration) (*types.Receipt, error)
}
