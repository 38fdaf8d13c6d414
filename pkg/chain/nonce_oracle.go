package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ahwlsqja/permission-mw-signer/pkg/nonce"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// NonceOracle reads recipient nonces from the permission middleware contract
type NonceOracle struct {
	address  common.Address
	contract *bind.BoundContract
	logger   *zap.Logger
}

// Compile-time interface compliance check
var _ nonce.Oracle = (*NonceOracle)(nil)

// NewNonceOracle binds the permission middleware at address for read-only calls
func NewNonceOracle(address common.Address, caller bind.ContractCaller, logger *zap.Logger) *NonceOracle {
	return &NonceOracle{
		address:  address,
		contract: bind.NewBoundContract(address, permissionMwABI, caller, nil, nil),
		logger:   logger,
	}
}

// Address returns the permission middleware address
func (o *NonceOracle) Address() common.Address {
	return o.address
}

// GetNonce returns the nonce the contract expects for recipient
func (o *NonceOracle) GetNonce(ctx context.Context, recipient common.Address) (*uint256.Int, error) {
	var out []interface{}
	err := o.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodGetNonce, recipient)
	if err != nil {
		o.logger.Error("getNonce call failed",
			zap.String("contract", o.address.Hex()),
			zap.String("recipient", recipient.Hex()),
			zap.Error(err),
		)
		return nil, &CallError{Op: methodGetNonce, Err: err}
	}

	if len(out) != 1 {
		return nil, &CallError{Op: methodGetNonce, Err: fmt.Errorf("unexpected output count %d", len(out))}
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return nil, &CallError{Op: methodGetNonce, Err: fmt.Errorf("unexpected output type %T", out[0])}
	}

	n, overflow := uint256.FromBig(raw)
	if overflow {
		return nil, &CallError{Op: methodGetNonce, Err: fmt.Errorf("nonce overflows uint256")}
	}

	o.logger.Debug("fetched nonce",
		zap.String("recipient", recipient.Hex()),
		zap.String("nonce", n.Dec()),
	)
	return n, nil
}
