package authorization

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahwlsqja/permission-mw-signer/internal/common/errors"
	"github.com/ahwlsqja/permission-mw-signer/internal/common/middleware"
	"github.com/ahwlsqja/permission-mw-signer/internal/repository/db"
	pkgdb "github.com/ahwlsqja/permission-mw-signer/pkg/db"
	"github.com/ahwlsqja/permission-mw-signer/pkg/authorizer"
	"github.com/ahwlsqja/permission-mw-signer/pkg/chain"
	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ahwlsqja/permission-mw-signer/pkg/nonce"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Repository gives the service pool-bound and transactional queries
type Repository interface {
	Queries() db.Querier
	WithTx(ctx context.Context, fn func(q db.Querier) error) error
}

// Deps are the collaborators of Service. Oracle and Registrar are optional.
type Deps struct {
	Repo       Repository
	Authorizer *authorizer.Authorizer
	Nonces     nonce.Store
	Oracle     nonce.Oracle
	Registrar  Submitter
	Variant    eip712.Variant
	Logger     *zap.Logger

	// TxTimeout bounds how long Submit waits for a receipt. Zero means the request context only.
	TxTimeout time.Duration
	// CallTimeout bounds each nonce oracle read. Zero means the request context only.
	CallTimeout time.Duration
}

// errLiveAuthorization means the nonce already has an issued or submitted row
var errLiveAuthorization = stderrors.New("live authorization exists for nonce")

// Service issues, stores and submits register authorizations
type Service struct {
	repo        Repository
	authorizer  *authorizer.Authorizer
	nonces      nonce.Store
	oracle      nonce.Oracle
	registrar   Submitter
	variant     eip712.Variant
	txTimeout   time.Duration
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewService creates a new authorization service.
// The domain's chain ID must fit the ledger's unsigned 64-bit column.
func NewService(d Deps) (*Service, error) {
	if d.Authorizer == nil {
		return nil, stderrors.New("authorizer is required")
	}
	if chainID := d.Authorizer.Domain().ChainID(); !chainID.IsUint64() {
		return nil, fmt.Errorf("chain id %s exceeds the ledger's 64-bit range", chainID.Dec())
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        d.Repo,
		authorizer:  d.Authorizer,
		nonces:      d.Nonces,
		oracle:      d.Oracle,
		registrar:   d.Registrar,
		variant:     d.Variant,
		txTimeout:   d.TxTimeout,
		callTimeout: d.CallTimeout,
		logger:      logger,
	}, nil
}

func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

// Issue signs a register authorization and stores it.
// The (recipient, nonce) pair is reserved first so concurrent requests
// cannot both get a signature for it.
func (s *Service) Issue(ctx context.Context, req *IssueAuthorizationRequest) (*db.Authorization, error) {
	// 1. Validate
	areq, err := req.ToAuthorizerRequest()
	if err != nil {
		return nil, err
	}

	// 2. Resolve nonce
	explicit := areq.Nonce != nil
	if !explicit {
		if s.oracle == nil {
			return nil, errors.InvalidInput("nonce is required when no nonce oracle is configured")
		}
		callCtx, cancel := s.callCtx(ctx)
		current, err := s.oracle.GetNonce(callCtx, areq.Recipient)
		cancel()
		if err != nil {
			s.logger.Error("failed to read on-chain nonce",
				zap.String("recipient", areq.Recipient.Hex()),
				zap.Error(err),
			)
			return nil, errors.FromSigning(err)
		}
		areq.Nonce = current
	}

	// 3. Reserve (recipient, nonce)
	if err := s.nonces.Reserve(ctx, areq.Recipient, areq.Nonce); err != nil {
		if stderrors.Is(err, nonce.ErrNonceAlreadyUsed) {
			return nil, errors.NonceReserved(areq.Recipient.Hex(), areq.Nonce.Dec())
		}
		return nil, errors.RedisError(err)
	}

	// 4. Sign. An explicit nonce is checked against the chain when we can.
	var auth *authorizer.Authorization
	if explicit && s.oracle != nil {
		callCtx, cancel := s.callCtx(ctx)
		auth, err = s.authorizer.AuthorizeWithOracle(callCtx, s.oracle, areq)
		cancel()
	} else {
		auth, err = s.authorizer.Authorize(ctx, areq)
	}
	if err != nil {
		s.release(ctx, areq)
		s.logger.Warn("authorization refused",
			zap.String("name", areq.Name),
			zap.String("recipient", areq.Recipient.Hex()),
			zap.Error(err),
		)
		return nil, errors.FromSigning(err)
	}

	// 5. Persist
	row, err := s.persist(ctx, auth)
	if err != nil {
		switch {
		case stderrors.Is(err, errLiveAuthorization), pkgdb.IsDuplicateKey(err):
			s.markUsed(ctx, auth.Request)
			return nil, errors.NonceReserved(areq.Recipient.Hex(), areq.Nonce.Dec())
		case pkgdb.IsLockConflict(err):
			s.release(ctx, areq)
			return nil, errors.NonceReserved(areq.Recipient.Hex(), areq.Nonce.Dec())
		}
		s.release(ctx, areq)
		s.logger.Error("failed to store authorization", zap.Error(err))
		return nil, errors.DBError(err)
	}

	// 6. Mark used (the live row check still guards the nonce if this fails)
	s.markUsed(ctx, auth.Request)

	s.logger.Info("authorization stored",
		zap.String("request_id", middleware.RequestIDFromContext(ctx)),
		zap.String("id", row.ExternalID),
		zap.String("name", row.Name),
		zap.String("recipient", row.Recipient),
		zap.String("nonce", row.Nonce),
	)

	return row, nil
}

func (s *Service) persist(ctx context.Context, auth *authorizer.Authorization) (*db.Authorization, error) {
	params := db.CreateAuthorizationParams{
		ExternalID:        uuid.New().String(),
		SchemaVariant:     string(s.variant),
		ChainID:           s.authorizer.Domain().ChainID().Uint64(),
		VerifyingContract: strings.ToLower(s.authorizer.Domain().VerifyingContract().Hex()),
		Name:              auth.Request.Name,
		Recipient:         strings.ToLower(auth.Request.Recipient.Hex()),
		Nonce:             auth.Request.Nonce.Dec(),
		Deadline:          auth.Request.Deadline.Dec(),
		Digest:            auth.Digest.Hex(),
		Signature:         auth.Signature.Hex(),
		Payload:           hexutil.Encode(auth.Payload),
		SignerAddress:     strings.ToLower(auth.Signer.Hex()),
	}
	if auth.Request.ParentNode != nil {
		params.ParentNode = sql.NullString{String: auth.Request.ParentNode.Hex(), Valid: true}
	}

	var row db.Authorization
	err := s.repo.WithTx(ctx, func(q db.Querier) error {
		// At most one issued or submitted row per nonce. An issued row past
		// its deadline can never be used on chain and is expired instead.
		live, err := q.GetLiveAuthorizationForUpdate(ctx, db.GetLiveAuthorizationForUpdateParams{
			VerifyingContract: params.VerifyingContract,
			Recipient:         params.Recipient,
			Nonce:             params.Nonce,
		})
		switch {
		case stderrors.Is(err, sql.ErrNoRows):
		case err != nil:
			return err
		case !s.stale(live):
			return errLiveAuthorization
		default:
			if _, err := q.UpdateAuthorizationStatus(ctx, db.UpdateAuthorizationStatusParams{
				Status:   db.AuthorizationsStatusExpired,
				ID:       live.ID,
				Status_2: db.AuthorizationsStatusIssued,
			}); err != nil {
				return err
			}
			s.logger.Info("stale authorization expired",
				zap.String("id", live.ExternalID),
				zap.String("recipient", live.Recipient),
				zap.String("nonce", live.Nonce),
			)
		}

		result, err := q.CreateAuthorization(ctx, params)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		row, err = q.GetAuthorizationByID(ctx, uint64(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// stale reports whether an issued row's deadline has passed
func (s *Service) stale(a db.Authorization) bool {
	if a.Status != db.AuthorizationsStatusIssued {
		return false
	}
	deadline, err := uint256.FromDecimal(a.Deadline)
	if err != nil {
		return false
	}
	return authorizer.CheckDeadline(deadline, s.authorizer.Now()) != nil
}

func (s *Service) release(ctx context.Context, req authorizer.Request) {
	if err := s.nonces.Release(context.WithoutCancel(ctx), req.Recipient, req.Nonce); err != nil {
		s.logger.Warn("failed to release nonce reservation",
			zap.String("recipient", req.Recipient.Hex()),
			zap.String("nonce", req.Nonce.Dec()),
			zap.Error(err),
		)
	}
}

func (s *Service) markUsed(ctx context.Context, req authorizer.Request) {
	if err := s.nonces.MarkUsed(context.WithoutCancel(ctx), req.Recipient, req.Nonce); err != nil {
		s.logger.Warn("failed to mark nonce as used",
			zap.String("recipient", req.Recipient.Hex()),
			zap.String("nonce", req.Nonce.Dec()),
			zap.Error(err),
		)
	}
}

// Get retrieves an authorization by external ID
func (s *Service) Get(ctx context.Context, externalID string) (*db.Authorization, error) {
	a, err := s.repo.Queries().GetAuthorizationByExternalID(ctx, externalID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("Authorization")
		}
		s.logger.Error("failed to get authorization", zap.Error(err))
		return nil, errors.DBError(err)
	}
	return &a, nil
}

// ListByRecipient returns a page of authorizations issued to recipient, newest first
func (s *Service) ListByRecipient(ctx context.Context, recipient common.Address, query ListQuery) (*ListAuthorizationsResponse, error) {
	address := strings.ToLower(recipient.Hex())
	limit, offset := query.normalize()

	items, err := s.repo.Queries().ListAuthorizationsByRecipient(ctx, db.ListAuthorizationsByRecipientParams{
		Recipient: address,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		s.logger.Error("failed to list authorizations", zap.Error(err))
		return nil, errors.DBError(err)
	}

	total, err := s.repo.Queries().CountAuthorizationsByRecipient(ctx, address)
	if err != nil {
		s.logger.Error("failed to count authorizations", zap.Error(err))
		return nil, errors.DBError(err)
	}

	return &ListAuthorizationsResponse{
		Authorizations: ToAuthorizationResponseList(items),
		Total:          total,
	}, nil
}

// GetNonce reads the recipient's current nonce from the verifying contract
func (s *Service) GetNonce(ctx context.Context, recipient common.Address) (*NonceResponse, error) {
	if s.oracle == nil {
		return nil, errors.NotConfigured("Nonce oracle")
	}
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()
	current, err := s.oracle.GetNonce(callCtx, recipient)
	if err != nil {
		return nil, errors.FromSigning(err)
	}
	return &NonceResponse{
		Recipient: strings.ToLower(recipient.Hex()),
		Nonce:     current.Dec(),
	}, nil
}

// Preview returns the digest and typed data of a request without signing it
// or reserving its nonce.
func (s *Service) Preview(ctx context.Context, req *IssueAuthorizationRequest) (*PreviewResponse, error) {
	areq, err := req.ToAuthorizerRequest()
	if err != nil {
		return nil, err
	}
	if areq.Nonce == nil {
		if s.oracle == nil {
			return nil, errors.InvalidInput("nonce is required when no nonce oracle is configured")
		}
		callCtx, cancel := s.callCtx(ctx)
		areq.Nonce, err = s.oracle.GetNonce(callCtx, areq.Recipient)
		cancel()
		if err != nil {
			return nil, errors.FromSigning(err)
		}
	}

	resolved, err := s.authorizer.Resolve(areq)
	if err != nil {
		return nil, errors.FromSigning(err)
	}
	values := s.authorizer.Values(resolved)

	domain, schema := s.authorizer.Domain(), s.authorizer.Schema()
	digest, err := eip712.Digest(domain, schema, values)
	if err != nil {
		return nil, errors.FromSigning(err)
	}
	typed, err := eip712.ToTypedData(domain, schema, values)
	if err != nil {
		return nil, errors.FromSigning(err)
	}

	return &PreviewResponse{
		Digest:          digest.Hex(),
		DomainSeparator: domain.Separator().Hex(),
		StructType:      schema.EncodeType(),
		TypedData:       typed,
	}, nil
}

// Domain describes the domain and schema this service signs under
func (s *Service) Domain() *DomainResponse {
	domain, schema := s.authorizer.Domain(), s.authorizer.Schema()
	return &DomainResponse{
		Name:              domain.Name(),
		Version:           domain.Version(),
		ChainID:           domain.ChainID().Dec(),
		VerifyingContract: strings.ToLower(domain.VerifyingContract().Hex()),
		Separator:         domain.Separator().Hex(),
		SchemaVariant:     string(s.variant),
		StructType:        schema.EncodeType(),
		TypeHash:          schema.TypeHash().Hex(),
		Signer:            strings.ToLower(s.authorizer.SignerAddress().Hex()),
		VConvention:       string(s.authorizer.Convention()),
	}
}

// Submit sends a stored authorization to the registrar.
// issued -> submitted -> confirmed | reverted. A transaction that never
// made it on chain puts the row back to issued so it can be retried.
func (s *Service) Submit(ctx context.Context, externalID string, req *SubmitAuthorizationRequest) (*db.Authorization, error) {
	if s.registrar == nil {
		return nil, errors.NotConfigured("Registrar")
	}

	var extra []byte
	if req != nil && req.ExtraData != "" {
		b, err := hexutil.Decode(req.ExtraData)
		if err != nil {
			return nil, errors.InvalidInput("extra_data must be 0x-prefixed hex")
		}
		extra = b
	}

	// 1. Claim the row
	var claimed db.Authorization
	err := s.repo.WithTx(ctx, func(q db.Querier) error {
		a, err := q.GetAuthorizationForUpdate(ctx, externalID)
		if err != nil {
			return err
		}
		if a.Status != db.AuthorizationsStatusIssued {
			return errors.InvalidStateTransition(string(a.Status), string(db.AuthorizationsStatusSubmitted))
		}
		if _, err := q.UpdateAuthorizationStatus(ctx, db.UpdateAuthorizationStatusParams{
			Status:   db.AuthorizationsStatusSubmitted,
			ID:       a.ID,
			Status_2: db.AuthorizationsStatusIssued,
		}); err != nil {
			return err
		}
		a.Status = db.AuthorizationsStatusSubmitted
		claimed = a
		return nil
	})
	if err != nil {
		var appErr *errors.AppError
		switch {
		case stderrors.Is(err, sql.ErrNoRows):
			return nil, errors.NotFound("Authorization")
		case stderrors.As(err, &appErr):
			return nil, appErr
		}
		s.logger.Error("failed to claim authorization", zap.Error(err))
		return nil, errors.DBError(err)
	}

	// 2. Build call
	reg, err := toRegistration(&claimed, extra)
	if err != nil {
		s.transition(ctx, claimed.ID, db.AuthorizationsStatusSubmitted, db.AuthorizationsStatusIssued, sql.NullString{})
		return nil, err
	}

	// 3. Send and wait
	sendCtx := ctx
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}
	receipt, sendErr := s.registrar.Register(sendCtx, reg)
	final := db.AuthorizationsStatusConfirmed
	switch {
	case sendErr == nil:
	case stderrors.Is(sendErr, chain.ErrReverted) && receipt != nil:
		final = db.AuthorizationsStatusReverted
	default:
		s.transition(ctx, claimed.ID, db.AuthorizationsStatusSubmitted, db.AuthorizationsStatusIssued, sql.NullString{})
		s.logger.Warn("registration not mined",
			zap.String("id", externalID),
			zap.Error(sendErr),
		)
		return nil, errors.FromSigning(sendErr)
	}

	// 4. Record outcome
	txHash := sql.NullString{String: receipt.TxHash.Hex(), Valid: true}
	if err := s.transition(ctx, claimed.ID, db.AuthorizationsStatusSubmitted, final, txHash); err != nil {
		return nil, errors.DBError(err)
	}

	s.logger.Info("registration submitted",
		zap.String("request_id", middleware.RequestIDFromContext(ctx)),
		zap.String("id", externalID),
		zap.String("status", string(final)),
		zap.String("tx_hash", txHash.String),
	)

	if sendErr != nil {
		// A reverted registration leaves the nonce unspent on chain
		s.releaseRow(ctx, &claimed)
		return nil, errors.FromSigning(sendErr)
	}

	updated, err := s.repo.Queries().GetAuthorizationByID(ctx, claimed.ID)
	if err != nil {
		return nil, errors.DBError(err)
	}
	return &updated, nil
}

func (s *Service) transition(ctx context.Context, id uint64, from, to db.AuthorizationsStatus, txHash sql.NullString) error {
	_, err := s.repo.Queries().UpdateAuthorizationStatus(context.WithoutCancel(ctx), db.UpdateAuthorizationStatusParams{
		Status:   to,
		TxHash:   txHash,
		ID:       id,
		Status_2: from,
	})
	if err != nil {
		s.logger.Error("failed to update authorization status",
			zap.Uint64("id", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err),
		)
	}
	return err
}

func (s *Service) releaseRow(ctx context.Context, a *db.Authorization) {
	n, err := uint256.FromDecimal(a.Nonce)
	if err != nil {
		s.logger.Warn("stored nonce is not a decimal", zap.String("id", a.ExternalID), zap.Error(err))
		return
	}
	s.release(ctx, authorizer.Request{Recipient: common.HexToAddress(a.Recipient), Nonce: n})
}

func toRegistration(a *db.Authorization, extra []byte) (chain.Registration, error) {
	payload, err := hexutil.Decode(a.Payload)
	if err != nil {
		return chain.Registration{}, errors.Internal("Stored authorization payload is corrupt").WithError(err)
	}

	reg := chain.Registration{
		Name:          a.Name,
		Recipient:     common.HexToAddress(a.Recipient),
		Authorization: payload,
		ExtraData:     extra,
	}
	if a.ParentNode.Valid {
		parent := common.HexToHash(a.ParentNode.String)
		reg.ParentNode = &parent
	}
	return reg, nil
}
