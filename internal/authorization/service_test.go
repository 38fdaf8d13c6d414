package authorization

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahwlsqja/permission-mw-signer/internal/common/errors"
	"github.com/ahwlsqja/permission-mw-signer/internal/mocks"
	"github.com/ahwlsqja/permission-mw-signer/internal/repository/db"
	"github.com/ahwlsqja/permission-mw-signer/pkg/authorizer"
	"github.com/ahwlsqja/permission-mw-signer/pkg/chain"
	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ahwlsqja/permission-mw-signer/pkg/nonce"
	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ahwlsqja/permission-mw-signer/pkg/signer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-sql-driver/mysql"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	testKeyHex     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	testMiddleware = "0x78a4c35cccc4eca7d987fdc38811c73ed36c2321"
	testRecipient  = "0x2E0446079705B6Bacc4730fB3EDA5DA68aE5Fe4D"
	testMocaNode   = "0xbfa0715290784075e564f966fffd9898ace1d7814f833780f62e59b079135746"
	testID         = "550e8400-e29b-41d4-a716-446655440000"
	baseDigestHex  = "0x5265bb4aadfeec643bf2afcb41a92da98ec1387451ad4401f2ddc7b01be01dcc"
	extDigestHex   = "0x28a17b4dcf712407fecdbca4554ee68f40870a8d2281cf94a6a911412450bd41"
)

var basePayloadHex = "0x000000000000000000000000000000000000000000000000000000000000001b" +
	"af7d5687349160e3db75278c1a27cf560eeba2e47c6b4c3ff9db981faca46404" +
	"4bf868044a2dcb570ba5b4331c0f613d66bd7ef5eff3c95e3173828e060ec5ef" +
	"0000000000000000000000000000000000000000000000000000000077359400"

var fixedNow = time.Unix(1_700_000_000, 0)

type fakeRepo struct {
	q *mocks.MockQuerier
}

func (r fakeRepo) Queries() db.Querier { return r.q }

func (r fakeRepo) WithTx(_ context.Context, fn func(q db.Querier) error) error {
	return fn(r.q)
}

type fixture struct {
	querier   *mocks.MockQuerier
	nonces    *mocks.MockStore
	oracle    *mocks.MockOracle
	registrar *mocks.MockSubmitter
}

type options struct {
	schema       *eip712.Schema
	variant      eip712.Variant
	withOracle   bool
	withRegistry bool
	callTimeout  time.Duration
}

func newTestService(t *testing.T, opts options) (*Service, *fixture) {
	t.Helper()
	ctrl := gomock.NewController(t)

	if opts.schema == nil {
		opts.schema = eip712.RegisterSchema()
		opts.variant = eip712.VariantBase
	}

	s, err := signer.NewKeySignerFromHex(testKeyHex)
	require.NoError(t, err)
	a, err := authorizer.New(authorizer.Config{
		Domain:     eip712.MustNewDomain("PermissionMw", "1", 80001, common.HexToAddress(testMiddleware)),
		Schema:     opts.schema,
		Convention: sigcodec.ConventionOffset27,
		Clock:      func() time.Time { return fixedNow },
	}, s, zap.NewNop())
	require.NoError(t, err)

	f := &fixture{
		querier: mocks.NewMockQuerier(ctrl),
		nonces:  mocks.NewMockStore(ctrl),
	}
	deps := Deps{
		Repo:        fakeRepo{q: f.querier},
		Authorizer:  a,
		Nonces:      f.nonces,
		Variant:     opts.variant,
		Logger:      zap.NewNop(),
		CallTimeout: opts.callTimeout,
	}
	if opts.withOracle {
		f.oracle = mocks.NewMockOracle(ctrl)
		deps.Oracle = f.oracle
	}
	if opts.withRegistry {
		f.registrar = mocks.NewMockSubmitter(ctrl)
		deps.Registrar = f.registrar
	}
	svc, err := NewService(deps)
	require.NoError(t, err)
	return svc, f
}

func baseIssueRequest() *IssueAuthorizationRequest {
	return &IssueAuthorizationRequest{
		Name:      "alice",
		Recipient: testRecipient,
		Nonce:     "0",
		Deadline:  "2000000000",
	}
}

func rowFrom(id uint64, p db.CreateAuthorizationParams) db.Authorization {
	return db.Authorization{
		ID:                id,
		ExternalID:        p.ExternalID,
		SchemaVariant:     p.SchemaVariant,
		ChainID:           p.ChainID,
		VerifyingContract: p.VerifyingContract,
		Name:              p.Name,
		ParentNode:        p.ParentNode,
		Recipient:         p.Recipient,
		Nonce:             p.Nonce,
		Deadline:          p.Deadline,
		Digest:            p.Digest,
		Signature:         p.Signature,
		Payload:           p.Payload,
		SignerAddress:     p.SignerAddress,
		Status:            db.AuthorizationsStatusIssued,
		CreatedAt:         fixedNow,
		UpdatedAt:         fixedNow,
	}
}

func liveKey(n string) db.GetLiveAuthorizationForUpdateParams {
	return db.GetLiveAuthorizationForUpdateParams{
		VerifyingContract: testMiddleware,
		Recipient:         "0x2e0446079705b6bacc4730fb3eda5da68ae5fe4d",
		Nonce:             n,
	}
}

func expectNoLiveRow(f *fixture) {
	f.querier.EXPECT().GetLiveAuthorizationForUpdate(gomock.Any(), liveKey("0")).
		Return(db.Authorization{}, sql.ErrNoRows)
}

// expectInsert records the insert and serves it back from GetAuthorizationByID
func expectInsert(f *fixture, captured *db.CreateAuthorizationParams) {
	f.querier.EXPECT().
		CreateAuthorization(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p db.CreateAuthorizationParams) (sql.Result, error) {
			*captured = p
			return sqlmock.NewResult(5, 1), nil
		})
	f.querier.EXPECT().
		GetAuthorizationByID(gomock.Any(), uint64(5)).
		DoAndReturn(func(context.Context, uint64) (db.Authorization, error) {
			return rowFrom(5, *captured), nil
		})
}

// expectStore is expectInsert for a nonce with no live row
func expectStore(f *fixture, captured *db.CreateAuthorizationParams) {
	expectNoLiveRow(f)
	expectInsert(f, captured)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

var (
	recipient = common.HexToAddress(testRecipient)
	zero      = uint256.NewInt(0)
)

func TestService_Issue(t *testing.T) {
	svc, f := newTestService(t, options{})

	var captured db.CreateAuthorizationParams
	gomock.InOrder(
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil),
		f.nonces.EXPECT().MarkUsed(gomock.Any(), recipient, zero).Return(nil),
	)
	expectStore(f, &captured)

	a, err := svc.Issue(context.Background(), baseIssueRequest())
	require.NoError(t, err)

	assert.Equal(t, uint64(5), a.ID)
	assert.Equal(t, baseDigestHex, captured.Digest)
	assert.Equal(t, basePayloadHex, captured.Payload)
	assert.Equal(t, "0x2e0446079705b6bacc4730fb3eda5da68ae5fe4d", captured.Recipient)
	assert.Equal(t, testMiddleware, captured.VerifyingContract)
	assert.Equal(t, testSignerAddr, captured.SignerAddress)
	assert.Equal(t, uint64(80001), captured.ChainID)
	assert.Equal(t, "base", captured.SchemaVariant)
	assert.Equal(t, "2000000000", captured.Deadline)
	assert.False(t, captured.ParentNode.Valid)
	assert.Len(t, captured.Signature, 132)
	assert.Equal(t, db.AuthorizationsStatusIssued, a.Status)
}

func TestService_Issue_Hierarchical(t *testing.T) {
	svc, f := newTestService(t, options{
		schema:  eip712.RegisterWithParentSchema(),
		variant: eip712.VariantHierarchical,
	})

	var captured db.CreateAuthorizationParams
	f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
	f.nonces.EXPECT().MarkUsed(gomock.Any(), recipient, zero).Return(nil)
	expectStore(f, &captured)

	req := baseIssueRequest()
	req.ParentNode = testMocaNode

	_, err := svc.Issue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, extDigestHex, captured.Digest)
	assert.Equal(t, sql.NullString{String: testMocaNode, Valid: true}, captured.ParentNode)
}

func TestService_Issue_NonceFromOracle(t *testing.T) {
	svc, f := newTestService(t, options{withOracle: true})

	var captured db.CreateAuthorizationParams
	f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).Return(uint256.NewInt(0), nil).Times(1)
	f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
	f.nonces.EXPECT().MarkUsed(gomock.Any(), recipient, zero).Return(nil)
	expectStore(f, &captured)

	req := baseIssueRequest()
	req.Nonce = ""

	_, err := svc.Issue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "0", captured.Nonce)
	assert.Equal(t, baseDigestHex, captured.Digest)
}

func TestService_Issue_StaleNonce(t *testing.T) {
	svc, f := newTestService(t, options{withOracle: true})

	f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
	f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).Return(uint256.NewInt(3), nil)
	f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

	_, err := svc.Issue(context.Background(), baseIssueRequest())
	assertCode(t, err, errors.CodeNonceMismatch)
}

func TestService_Issue_Errors(t *testing.T) {
	t.Run("nonce required without oracle", func(t *testing.T) {
		svc, _ := newTestService(t, options{})
		req := baseIssueRequest()
		req.Nonce = ""

		_, err := svc.Issue(context.Background(), req)
		assertCode(t, err, errors.CodeInvalidInput)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		svc, _ := newTestService(t, options{})
		req := baseIssueRequest()
		req.Recipient = "0xZZ0446079705B6Bacc4730fB3EDA5DA68aE5Fe4D"

		_, err := svc.Issue(context.Background(), req)
		assertCode(t, err, errors.CodeInvalidInput)
	})

	t.Run("parent node on base schema", func(t *testing.T) {
		svc, f := newTestService(t, options{})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
		f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

		req := baseIssueRequest()
		req.ParentNode = testMocaNode

		_, err := svc.Issue(context.Background(), req)
		assertCode(t, err, errors.CodeInvalidInput)
	})

	t.Run("nonce already reserved", func(t *testing.T) {
		svc, f := newTestService(t, options{})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nonce.ErrNonceAlreadyUsed)

		_, err := svc.Issue(context.Background(), baseIssueRequest())
		assertCode(t, err, errors.CodeNonceReserved)
	})

	t.Run("nonce store down", func(t *testing.T) {
		svc, f := newTestService(t, options{})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(fmt.Errorf("dial tcp: connection refused"))

		_, err := svc.Issue(context.Background(), baseIssueRequest())
		assertCode(t, err, errors.CodeRedisError)
	})

	t.Run("expired deadline releases nonce", func(t *testing.T) {
		svc, f := newTestService(t, options{})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
		f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

		req := baseIssueRequest()
		req.Deadline = "1699999999"

		_, err := svc.Issue(context.Background(), req)
		assertCode(t, err, errors.CodeDeadlineExpired)
	})

	t.Run("duplicate row keeps nonce used", func(t *testing.T) {
		svc, f := newTestService(t, options{})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
		expectNoLiveRow(f)
		f.querier.EXPECT().CreateAuthorization(gomock.Any(), gomock.Any()).
			Return(nil, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		f.nonces.EXPECT().MarkUsed(gomock.Any(), recipient, zero).Return(nil)

		_, err := svc.Issue(context.Background(), baseIssueRequest())
		assertCode(t, err, errors.CodeNonceReserved)
	})

	t.Run("db failure releases nonce", func(t *testing.T) {
		svc, f := newTestService(t, options{})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
		expectNoLiveRow(f)
		f.querier.EXPECT().CreateAuthorization(gomock.Any(), gomock.Any()).
			Return(nil, stderrors.New("bad connection"))
		f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

		_, err := svc.Issue(context.Background(), baseIssueRequest())
		assertCode(t, err, errors.CodeDBError)
	})

	t.Run("lock conflict releases nonce", func(t *testing.T) {
		svc, f := newTestService(t, options{})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
		f.querier.EXPECT().GetLiveAuthorizationForUpdate(gomock.Any(), liveKey("0")).
			Return(db.Authorization{}, &mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
		f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

		_, err := svc.Issue(context.Background(), baseIssueRequest())
		assertCode(t, err, errors.CodeNonceReserved)
	})
}

func liveRow(status db.AuthorizationsStatus, deadline string) db.Authorization {
	row := issuedRow()
	row.ID = 4
	row.Status = status
	row.Deadline = deadline
	return row
}

func TestService_Issue_ExpiresStaleRow(t *testing.T) {
	svc, f := newTestService(t, options{})

	var captured db.CreateAuthorizationParams
	f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
	gomock.InOrder(
		f.querier.EXPECT().GetLiveAuthorizationForUpdate(gomock.Any(), liveKey("0")).
			Return(liveRow(db.AuthorizationsStatusIssued, "1699999999"), nil),
		f.querier.EXPECT().UpdateAuthorizationStatus(gomock.Any(), db.UpdateAuthorizationStatusParams{
			Status:   db.AuthorizationsStatusExpired,
			ID:       4,
			Status_2: db.AuthorizationsStatusIssued,
		}).Return(sqlmock.NewResult(0, 1), nil),
	)
	expectInsert(f, &captured)
	f.nonces.EXPECT().MarkUsed(gomock.Any(), recipient, zero).Return(nil)

	a, err := svc.Issue(context.Background(), baseIssueRequest())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), a.ID)
	assert.Equal(t, baseDigestHex, captured.Digest)
}

func TestService_Issue_LiveRowBlocks(t *testing.T) {
	tests := []struct {
		name string
		row  db.Authorization
	}{
		{"issued before deadline", liveRow(db.AuthorizationsStatusIssued, "1700000000")},
		{"submitted past deadline", liveRow(db.AuthorizationsStatusSubmitted, "1699999999")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, f := newTestService(t, options{})
			f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
			f.querier.EXPECT().GetLiveAuthorizationForUpdate(gomock.Any(), liveKey("0")).Return(tt.row, nil)
			f.nonces.EXPECT().MarkUsed(gomock.Any(), recipient, zero).Return(nil)

			_, err := svc.Issue(context.Background(), baseIssueRequest())
			assertCode(t, err, errors.CodeNonceReserved)
		})
	}
}

func TestService_Issue_AfterReverted(t *testing.T) {
	svc, f := newTestService(t, options{withRegistry: true})
	txHash := common.HexToHash("0xdead")

	// Revert frees the nonce in the store
	expectClaim(f, issuedRow())
	f.registrar.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed, TxHash: txHash},
			fmt.Errorf("%w: tx %s", chain.ErrReverted, txHash.Hex()))
	f.querier.EXPECT().UpdateAuthorizationStatus(gomock.Any(), gomock.Any()).Return(sqlmock.NewResult(0, 1), nil)
	f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

	_, err := svc.Submit(context.Background(), testID, nil)
	assertCode(t, err, errors.CodeRegistrationFail)

	// The reverted row is not live, so the same nonce is issued again
	var captured db.CreateAuthorizationParams
	f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
	expectStore(f, &captured)
	f.nonces.EXPECT().MarkUsed(gomock.Any(), recipient, zero).Return(nil)

	a, err := svc.Issue(context.Background(), baseIssueRequest())
	require.NoError(t, err)
	assert.Equal(t, "0", captured.Nonce)
	assert.Equal(t, db.AuthorizationsStatusIssued, a.Status)
}

func TestService_OracleCallTimeout(t *testing.T) {
	blocking := func(ctx context.Context, _ common.Address) (*uint256.Int, error) {
		<-ctx.Done()
		return nil, &chain.CallError{Op: "getNonce", Err: ctx.Err()}
	}

	t.Run("issue", func(t *testing.T) {
		svc, f := newTestService(t, options{withOracle: true, callTimeout: 20 * time.Millisecond})
		f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).DoAndReturn(blocking)

		req := baseIssueRequest()
		req.Nonce = ""

		_, err := svc.Issue(context.Background(), req)
		assertCode(t, err, errors.CodeChainError)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("issue with explicit nonce", func(t *testing.T) {
		svc, f := newTestService(t, options{withOracle: true, callTimeout: 20 * time.Millisecond})
		f.nonces.EXPECT().Reserve(gomock.Any(), recipient, zero).Return(nil)
		f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).DoAndReturn(blocking)
		f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

		_, err := svc.Issue(context.Background(), baseIssueRequest())
		assertCode(t, err, errors.CodeChainError)
	})

	t.Run("get nonce", func(t *testing.T) {
		svc, f := newTestService(t, options{withOracle: true, callTimeout: 20 * time.Millisecond})
		f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).DoAndReturn(blocking)

		_, err := svc.GetNonce(context.Background(), recipient)
		assertCode(t, err, errors.CodeChainError)
	})

	t.Run("preview", func(t *testing.T) {
		svc, f := newTestService(t, options{withOracle: true, callTimeout: 20 * time.Millisecond})
		f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).DoAndReturn(blocking)

		req := baseIssueRequest()
		req.Nonce = ""

		_, err := svc.Preview(context.Background(), req)
		assertCode(t, err, errors.CodeChainError)
	})
}

func TestNewService_ChainIDRange(t *testing.T) {
	s, err := signer.NewKeySignerFromHex(testKeyHex)
	require.NoError(t, err)

	wide := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	domain, err := eip712.NewDomain("PermissionMw", "1", wide, common.HexToAddress(testMiddleware))
	require.NoError(t, err)
	a, err := authorizer.New(authorizer.Config{
		Domain: domain,
		Schema: eip712.RegisterSchema(),
	}, s, zap.NewNop())
	require.NoError(t, err)

	_, err = NewService(Deps{Authorizer: a})
	assert.ErrorContains(t, err, "18446744073709551616")

	_, err = NewService(Deps{})
	assert.Error(t, err)
}

func TestService_Get(t *testing.T) {
	svc, f := newTestService(t, options{})

	f.querier.EXPECT().GetAuthorizationByExternalID(gomock.Any(), testID).
		Return(db.Authorization{ID: 1, ExternalID: testID}, nil)
	a, err := svc.Get(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, testID, a.ExternalID)

	f.querier.EXPECT().GetAuthorizationByExternalID(gomock.Any(), "missing").
		Return(db.Authorization{}, sql.ErrNoRows)
	_, err = svc.Get(context.Background(), "missing")
	assertCode(t, err, errors.CodeNotFound)
}

func TestService_ListByRecipient(t *testing.T) {
	svc, f := newTestService(t, options{})
	lower := "0x2e0446079705b6bacc4730fb3eda5da68ae5fe4d"

	f.querier.EXPECT().ListAuthorizationsByRecipient(gomock.Any(), db.ListAuthorizationsByRecipientParams{
		Recipient: lower,
		Limit:     100,
		Offset:    10,
	}).Return([]db.Authorization{{ExternalID: "a"}, {ExternalID: "b"}}, nil)
	f.querier.EXPECT().CountAuthorizationsByRecipient(gomock.Any(), lower).Return(int64(12), nil)

	list, err := svc.ListByRecipient(context.Background(), recipient, ListQuery{Limit: 500, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), list.Total)
	require.Len(t, list.Authorizations, 2)
	assert.Equal(t, "b", list.Authorizations[1].ID)
}

func TestService_GetNonce(t *testing.T) {
	svc, _ := newTestService(t, options{})
	_, err := svc.GetNonce(context.Background(), recipient)
	assertCode(t, err, errors.CodeNotConfigured)

	svc, f := newTestService(t, options{withOracle: true})
	f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).Return(uint256.NewInt(7), nil)
	resp, err := svc.GetNonce(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, "7", resp.Nonce)

	f.oracle.EXPECT().GetNonce(gomock.Any(), recipient).
		Return(nil, &chain.CallError{Op: "getNonce", Err: stderrors.New("timeout")})
	_, err = svc.GetNonce(context.Background(), recipient)
	assertCode(t, err, errors.CodeChainError)
}

func TestService_Preview(t *testing.T) {
	svc, _ := newTestService(t, options{})

	preview, err := svc.Preview(context.Background(), baseIssueRequest())
	require.NoError(t, err)
	assert.Equal(t, baseDigestHex, preview.Digest)
	assert.Equal(t, "register(string name,address to,uint256 nonce,uint256 deadline)", preview.StructType)
	assert.Equal(t, "register", preview.TypedData.PrimaryType)
	assert.Equal(t, "alice", preview.TypedData.Message["name"])
}

func TestService_Domain(t *testing.T) {
	svc, _ := newTestService(t, options{})

	d := svc.Domain()
	assert.Equal(t, "PermissionMw", d.Name)
	assert.Equal(t, "80001", d.ChainID)
	assert.Equal(t, testMiddleware, d.VerifyingContract)
	assert.Equal(t, testSignerAddr, d.Signer)
	assert.Equal(t, "offset27", d.VConvention)
	assert.Equal(t, "base", d.SchemaVariant)
}

func issuedRow() db.Authorization {
	return db.Authorization{
		ID:         9,
		ExternalID: testID,
		Name:       "alice",
		Recipient:  "0x2e0446079705b6bacc4730fb3eda5da68ae5fe4d",
		Nonce:      "0",
		Deadline:   "2000000000",
		Payload:    basePayloadHex,
		Status:     db.AuthorizationsStatusIssued,
	}
}

func expectClaim(f *fixture, row db.Authorization) {
	f.querier.EXPECT().GetAuthorizationForUpdate(gomock.Any(), testID).Return(row, nil)
	f.querier.EXPECT().UpdateAuthorizationStatus(gomock.Any(), db.UpdateAuthorizationStatusParams{
		Status:   db.AuthorizationsStatusSubmitted,
		ID:       row.ID,
		Status_2: db.AuthorizationsStatusIssued,
	}).Return(sqlmock.NewResult(0, 1), nil)
}

func TestService_Submit(t *testing.T) {
	svc, f := newTestService(t, options{withRegistry: true})
	txHash := common.HexToHash("0xabc1")

	expectClaim(f, issuedRow())
	f.registrar.EXPECT().Register(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reg chain.Registration) (*types.Receipt, error) {
			assert.Equal(t, "alice", reg.Name)
			assert.Equal(t, recipient, reg.Recipient)
			assert.Len(t, reg.Authorization, 128)
			assert.Equal(t, []byte{0xca, 0xfe}, reg.ExtraData)
			assert.Nil(t, reg.ParentNode)
			return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: txHash}, nil
		})
	f.querier.EXPECT().UpdateAuthorizationStatus(gomock.Any(), db.UpdateAuthorizationStatusParams{
		Status:   db.AuthorizationsStatusConfirmed,
		TxHash:   sql.NullString{String: txHash.Hex(), Valid: true},
		ID:       9,
		Status_2: db.AuthorizationsStatusSubmitted,
	}).Return(sqlmock.NewResult(0, 1), nil)

	confirmed := issuedRow()
	confirmed.Status = db.AuthorizationsStatusConfirmed
	confirmed.TxHash = sql.NullString{String: txHash.Hex(), Valid: true}
	f.querier.EXPECT().GetAuthorizationByID(gomock.Any(), uint64(9)).Return(confirmed, nil)

	a, err := svc.Submit(context.Background(), testID, &SubmitAuthorizationRequest{ExtraData: "0xcafe"})
	require.NoError(t, err)
	assert.Equal(t, db.AuthorizationsStatusConfirmed, a.Status)
	assert.Equal(t, txHash.Hex(), a.TxHash.String)
}

func TestService_Submit_Reverted(t *testing.T) {
	svc, f := newTestService(t, options{withRegistry: true})
	txHash := common.HexToHash("0xdead")

	expectClaim(f, issuedRow())
	f.registrar.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed, TxHash: txHash},
			fmt.Errorf("%w: tx %s", chain.ErrReverted, txHash.Hex()))
	f.querier.EXPECT().UpdateAuthorizationStatus(gomock.Any(), db.UpdateAuthorizationStatusParams{
		Status:   db.AuthorizationsStatusReverted,
		TxHash:   sql.NullString{String: txHash.Hex(), Valid: true},
		ID:       9,
		Status_2: db.AuthorizationsStatusSubmitted,
	}).Return(sqlmock.NewResult(0, 1), nil)
	f.nonces.EXPECT().Release(gomock.Any(), recipient, zero).Return(nil)

	_, err := svc.Submit(context.Background(), testID, nil)
	assertCode(t, err, errors.CodeRegistrationFail)
}

func TestService_Submit_NotMined(t *testing.T) {
	svc, f := newTestService(t, options{withRegistry: true})

	expectClaim(f, issuedRow())
	f.registrar.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(nil, &chain.CallError{Op: "register", Err: stderrors.New("insufficient funds")})
	f.querier.EXPECT().UpdateAuthorizationStatus(gomock.Any(), db.UpdateAuthorizationStatusParams{
		Status:   db.AuthorizationsStatusIssued,
		ID:       9,
		Status_2: db.AuthorizationsStatusSubmitted,
	}).Return(sqlmock.NewResult(0, 1), nil)

	_, err := svc.Submit(context.Background(), testID, nil)
	assertCode(t, err, errors.CodeChainError)
}

func TestService_Submit_Errors(t *testing.T) {
	t.Run("no registrar", func(t *testing.T) {
		svc, _ := newTestService(t, options{})
		_, err := svc.Submit(context.Background(), testID, nil)
		assertCode(t, err, errors.CodeNotConfigured)
	})

	t.Run("bad extra data", func(t *testing.T) {
		svc, _ := newTestService(t, options{withRegistry: true})
		_, err := svc.Submit(context.Background(), testID, &SubmitAuthorizationRequest{ExtraData: "cafe"})
		assertCode(t, err, errors.CodeInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc, f := newTestService(t, options{withRegistry: true})
		f.querier.EXPECT().GetAuthorizationForUpdate(gomock.Any(), testID).Return(db.Authorization{}, sql.ErrNoRows)

		_, err := svc.Submit(context.Background(), testID, nil)
		assertCode(t, err, errors.CodeNotFound)
	})

	t.Run("already submitted", func(t *testing.T) {
		svc, f := newTestService(t, options{withRegistry: true})
		row := issuedRow()
		row.Status = db.AuthorizationsStatusConfirmed
		f.querier.EXPECT().GetAuthorizationForUpdate(gomock.Any(), testID).Return(row, nil)

		_, err := svc.Submit(context.Background(), testID, nil)
		assertCode(t, err, errors.CodeInvalidState)
	})
}
