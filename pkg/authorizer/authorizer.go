// Package authorizer issues PermissionMw register authorizations: it hashes a
// typed request, signs the digest, checks the signature and encodes the
// payload the verifying contract consumes.
package authorizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahwlsqja/permission-mw-signer/pkg/authpayload"
	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ahwlsqja/permission-mw-signer/pkg/nonce"
	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ahwlsqja/permission-mw-signer/pkg/signer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Error definitions
var (
	ErrDeadlineExpired      = errors.New("deadline already expired")
	ErrMissingDeadline      = errors.New("deadline is required")
	ErrMissingNonce         = errors.New("nonce is required")
	ErrEmptyName            = errors.New("name is required")
	ErrMissingParentNode    = errors.New("schema requires a parent node")
	ErrUnexpectedParentNode = errors.New("schema does not take a parent node")
	ErrNonceMismatch        = errors.New("nonce does not match on-chain nonce")
	ErrSelfVerification     = errors.New("signature does not recover to signer")
	ErrNoOracle             = errors.New("nonce oracle is required")
)

// Config is the per-deployment signing configuration
type Config struct {
	Domain *eip712.Domain
	Schema *eip712.Schema

	// ParentNode is used for schemas with a parentNode field when the request has none
	ParentNode *common.Hash

	Convention  sigcodec.Convention
	RequireLowS bool

	// Clock defaults to time.Now
	Clock func() time.Time

	// DefaultDeadlineTTL fills a missing deadline as now+TTL. Zero makes deadline mandatory.
	DefaultDeadlineTTL time.Duration
}

// Request is one authorization to sign
type Request struct {
	Name       string
	Recipient  common.Address
	ParentNode *common.Hash
	Nonce      *uint256.Int
	Deadline   *uint256.Int
}

// Authorization is the result of a successful signing operation
type Authorization struct {
	Request   Request
	Digest    common.Hash
	Signature sigcodec.Signature
	Payload   []byte
	Signer    common.Address
}

// Authorizer runs the signing pipeline for a single domain and schema
type Authorizer struct {
	domain     *eip712.Domain
	schema     *eip712.Schema
	parentNode *common.Hash
	codec      *sigcodec.Codec
	clock      func() time.Time
	ttl        time.Duration
	signer     signer.Signer
	logger     *zap.Logger
}

// New creates an Authorizer
func New(cfg Config, s signer.Signer, logger *zap.Logger) (*Authorizer, error) {
	if cfg.Domain == nil {
		return nil, &eip712.SchemaError{Type: eip712.DomainTypeName, Reason: "domain is required"}
	}
	if cfg.Schema == nil {
		return nil, &eip712.SchemaError{Reason: "schema is required"}
	}
	if s == nil {
		return nil, &signer.KeyError{Reason: "signer is required"}
	}
	if cfg.DefaultDeadlineTTL < 0 {
		return nil, fmt.Errorf("default deadline TTL must not be negative")
	}

	codec, err := sigcodec.NewCodec(cfg.Convention, cfg.RequireLowS)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var parent *common.Hash
	if cfg.ParentNode != nil {
		p := *cfg.ParentNode
		parent = &p
	}

	return &Authorizer{
		domain:     cfg.Domain,
		schema:     cfg.Schema,
		parentNode: parent,
		codec:      codec,
		clock:      clock,
		ttl:        cfg.DefaultDeadlineTTL,
		signer:     s,
		logger:     logger,
	}, nil
}

// Domain returns the signing domain
func (a *Authorizer) Domain() *eip712.Domain { return a.domain }

// Schema returns the message schema
func (a *Authorizer) Schema() *eip712.Schema { return a.schema }

// SignerAddress returns the address authorizations are signed by
func (a *Authorizer) SignerAddress() common.Address { return a.signer.Address() }

// Convention returns the v convention of issued signatures
func (a *Authorizer) Convention() sigcodec.Convention { return a.codec.Convention }

// Now returns the authorizer's current time
func (a *Authorizer) Now() time.Time { return a.clock() }

// Resolve fills defaults into req and validates it against the schema
func (a *Authorizer) Resolve(req Request) (Request, error) {
	if req.Name == "" {
		return Request{}, ErrEmptyName
	}
	if req.Nonce == nil {
		return Request{}, ErrMissingNonce
	}

	out := Request{
		Name:      req.Name,
		Recipient: req.Recipient,
		Nonce:     req.Nonce.Clone(),
	}

	// Parent node only for schemas that carry one
	if a.schema.Has(eip712.FieldParentNode) {
		switch {
		case req.ParentNode != nil:
			p := *req.ParentNode
			out.ParentNode = &p
		case a.parentNode != nil:
			p := *a.parentNode
			out.ParentNode = &p
		default:
			return Request{}, ErrMissingParentNode
		}
	} else if req.ParentNode != nil {
		return Request{}, ErrUnexpectedParentNode
	}

	switch {
	case req.Deadline != nil:
		out.Deadline = req.Deadline.Clone()
	case a.ttl > 0:
		out.Deadline = uint256.NewInt(uint64(a.clock().Add(a.ttl).Unix()))
	default:
		return Request{}, ErrMissingDeadline
	}
	return out, nil
}

// Values renders a resolved request as typed message values
func (a *Authorizer) Values(req Request) eip712.Values {
	values := eip712.Values{
		eip712.FieldName:     req.Name,
		eip712.FieldTo:       req.Recipient,
		eip712.FieldNonce:    req.Nonce,
		eip712.FieldDeadline: req.Deadline,
	}
	if req.ParentNode != nil {
		values[eip712.FieldParentNode] = *req.ParentNode
	}
	return values
}

// Digest returns the EIP-712 digest of req without signing it
func (a *Authorizer) Digest(req Request) (common.Hash, error) {
	resolved, err := a.Resolve(req)
	if err != nil {
		return common.Hash{}, err
	}
	return eip712.Digest(a.domain, a.schema, a.Values(resolved))
}

// Authorize signs req. Nothing is returned unless every step succeeds.
func (a *Authorizer) Authorize(ctx context.Context, req Request) (*Authorization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Resolve defaults and validate
	resolved, err := a.Resolve(req)
	if err != nil {
		return nil, err
	}

	// 2. Refuse already-expired deadlines
	if err := CheckDeadline(resolved.Deadline, a.clock()); err != nil {
		return nil, err
	}

	// 3. Hash
	digest, err := eip712.Digest(a.domain, a.schema, a.Values(resolved))
	if err != nil {
		return nil, err
	}

	// 4. Sign
	raw, err := a.signer.SignDigest(digest)
	if err != nil {
		return nil, err
	}

	// 5. Split, range-check and apply v convention
	sig, err := a.codec.Split(raw)
	if err != nil {
		a.logger.Error("signer produced an invalid signature",
			zap.String("digest", digest.Hex()),
			zap.Error(err),
		)
		return nil, err
	}

	// 6. Recover and compare against the signer
	recovered, err := eip712.RecoverDigest(digest, sig.Bytes())
	if err != nil {
		return nil, err
	}
	if recovered != a.signer.Address() {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrSelfVerification, recovered.Hex(), a.signer.Address().Hex())
	}

	// 7. Encode payload
	payload, err := authpayload.EncodeSignature(sig, resolved.Deadline)
	if err != nil {
		return nil, err
	}

	a.logger.Info("authorization issued",
		zap.String("name", resolved.Name),
		zap.String("recipient", resolved.Recipient.Hex()),
		zap.String("nonce", resolved.Nonce.Dec()),
		zap.String("deadline", resolved.Deadline.Dec()),
		zap.String("digest", digest.Hex()),
	)

	return &Authorization{
		Request:   resolved,
		Digest:    digest,
		Signature: sig,
		Payload:   payload,
		Signer:    recovered,
	}, nil
}

// AuthorizeWithOracle fetches the recipient's on-chain nonce and signs with it.
// A nonce already set on req must match the oracle. Oracle failures are returned as is.
func (a *Authorizer) AuthorizeWithOracle(ctx context.Context, oracle nonce.Oracle, req Request) (*Authorization, error) {
	if oracle == nil {
		return nil, ErrNoOracle
	}
	current, err := oracle.GetNonce(ctx, req.Recipient)
	if err != nil {
		return nil, err
	}

	if req.Nonce != nil && !req.Nonce.Eq(current) {
		return nil, fmt.Errorf("%w: have %s, chain %s", ErrNonceMismatch, req.Nonce.Dec(), current.Dec())
	}
	req.Nonce = current

	return a.Authorize(ctx, req)
}

// CheckDeadline reports ErrDeadlineExpired when deadline is before now.
// A deadline equal to now is still accepted.
func CheckDeadline(deadline *uint256.Int, now time.Time) error {
	if deadline == nil {
		return ErrMissingDeadline
	}
	unix := now.Unix()
	// A clock before the epoch is earlier than every uint256 deadline
	if unix < 0 {
		return nil
	}
	if deadline.Lt(uint256.NewInt(uint64(unix))) {
		return fmt.Errorf("%w: deadline %s, now %d", ErrDeadlineExpired, deadline.Dec(), unix)
	}
	return nil
}
