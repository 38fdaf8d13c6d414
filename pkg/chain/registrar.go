package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Backend is what the registrar needs to send a transaction and wait for it
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Registration is one call to the registrar's register entry point
type Registration struct {
	Name          string
	ParentNode    *common.Hash
	Recipient     common.Address
	Authorization []byte
	ExtraData     []byte
}

// Registrar submits authorized registrations to the registrar contract
type Registrar struct {
	address  common.Address
	variant  eip712.Variant
	abi      abi.ABI
	contract *bind.BoundContract
	backend  Backend
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	logger   *zap.Logger
}

// NewRegistrar binds the registrar at address. The variant decides whether
// register takes a parent node.
func NewRegistrar(
	address common.Address,
	variant eip712.Variant,
	backend Backend,
	key *ecdsa.PrivateKey,
	chainID *big.Int,
	logger *zap.Logger,
) (*Registrar, error) {
	parsed, err := registrarABIFor(variant)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, fmt.Errorf("submitter key is required")
	}
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain ID is required")
	}

	return &Registrar{
		address:  address,
		variant:  variant,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  new(big.Int).Set(chainID),
		logger:   logger,
	}, nil
}

func registrarABIFor(variant eip712.Variant) (abi.ABI, error) {
	switch variant {
	case eip712.VariantBase:
		return registrarABI, nil
	case eip712.VariantHierarchical:
		return hierarchicalRegistrarABI, nil
	default:
		return abi.ABI{}, fmt.Errorf("unknown registrar variant %q", variant)
	}
}

// Address returns the registrar contract address
func (r *Registrar) Address() common.Address {
	return r.address
}

// From returns the account that pays for submissions
func (r *Registrar) From() common.Address {
	return r.from
}

// PackRegister returns the calldata for reg
func (r *Registrar) PackRegister(reg Registration) ([]byte, error) {
	args, err := registerArgs(r.variant, reg)
	if err != nil {
		return nil, err
	}
	return r.abi.Pack(methodRegister, args...)
}

// Register sends reg and waits for it to be mined.
// A failed receipt is reported as ErrReverted; the stale nonce and expired
// deadline cases only show up here.
func (r *Registrar) Register(ctx context.Context, reg Registration) (*types.Receipt, error) {
	args, err := registerArgs(r.variant, reg)
	if err != nil {
		return nil, err
	}

	// 1. Build transactor
	opts, err := bind.NewKeyedTransactorWithChainID(r.key, r.chainID)
	if err != nil {
		return nil, &CallError{Op: methodRegister, Err: fmt.Errorf("failed to create transactor: %w", err)}
	}
	opts.Context = ctx

	// 2. Send
	tx, err := r.contract.Transact(opts, methodRegister, args...)
	if err != nil {
		r.logger.Error("register transaction failed",
			zap.String("registrar", r.address.Hex()),
			zap.String("name", reg.Name),
			zap.String("recipient", reg.Recipient.Hex()),
			zap.Error(err),
		)
		return nil, &CallError{Op: methodRegister, Err: err}
	}

	r.logger.Info("register transaction sent",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("name", reg.Name),
		zap.String("recipient", reg.Recipient.Hex()),
	)

	// 3. Wait for receipt
	receipt, err := bind.WaitMined(ctx, r.backend, tx)
	if err != nil {
		return nil, &CallError{Op: "waitMined", Err: err}
	}

	if err := checkReceipt(receipt); err != nil {
		r.logger.Warn("register transaction reverted",
			zap.String("tx_hash", tx.Hash().Hex()),
			zap.Uint64("gas_used", receipt.GasUsed),
		)
		return receipt, err
	}

	r.logger.Info("register transaction mined",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	return receipt, nil
}

func registerArgs(variant eip712.Variant, reg Registration) ([]interface{}, error) {
	if reg.Name == "" {
		return nil, ErrEmptyName
	}
	if len(reg.Authorization) == 0 {
		return nil, ErrEmptyPayload
	}
	extra := reg.ExtraData
	if extra == nil {
		extra = []byte{}
	}

	switch variant {
	case eip712.VariantBase:
		if reg.ParentNode != nil {
			return nil, ErrUnexpectedParent
		}
		return []interface{}{reg.Name, reg.Recipient, reg.Authorization, extra}, nil
	case eip712.VariantHierarchical:
		if reg.ParentNode == nil {
			return nil, ErrMissingParentNode
		}
		parent := [32]byte(*reg.ParentNode)
		return []interface{}{reg.Name, parent, reg.Recipient, reg.Authorization, extra}, nil
	default:
		return nil, fmt.Errorf("unknown registrar variant %q", variant)
	}
}

func checkReceipt(receipt *types.Receipt) error {
	if receipt == nil {
		return &CallError{Op: methodRegister, Err: fmt.Errorf("missing receipt")}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: tx %s", ErrReverted, receipt.TxHash.Hex())
	}
	return nil
}
