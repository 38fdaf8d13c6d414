package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ahwlsqja/permission-mw-signer/pkg/authorizer"
	"github.com/ahwlsqja/permission-mw-signer/pkg/chain"
	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ahwlsqja/permission-mw-signer/pkg/nonce"
	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ahwlsqja/permission-mw-signer/pkg/signer"
	"github.com/stretchr/testify/assert"
)

func TestFromSigning(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"expired", fmt.Errorf("%w: x", authorizer.ErrDeadlineExpired), CodeDeadlineExpired, http.StatusBadRequest},
		{"nonce mismatch", fmt.Errorf("%w: x", authorizer.ErrNonceMismatch), CodeNonceMismatch, http.StatusConflict},
		{"missing parent", authorizer.ErrMissingParentNode, CodeInvalidInput, http.StatusBadRequest},
		{"no oracle", authorizer.ErrNoOracle, CodeNotConfigured, http.StatusNotImplemented},
		{"reserved", nonce.ErrNonceAlreadyUsed, CodeNonceReserved, http.StatusConflict},
		{"reverted", fmt.Errorf("%w: tx 0x1", chain.ErrReverted), CodeRegistrationFail, http.StatusUnprocessableEntity},
		{"schema", &eip712.SchemaError{Type: "register", Reason: "bad"}, CodeSchemaError, http.StatusBadRequest},
		{"key", &signer.KeyError{Reason: "zero"}, CodeKeyError, http.StatusInternalServerError},
		{"range", &sigcodec.RangeError{Component: "r", Reason: "zero"}, CodeSignatureRange, http.StatusInternalServerError},
		{"self verify", authorizer.ErrSelfVerification, CodeSignatureRange, http.StatusInternalServerError},
		{"chain", &chain.CallError{Op: "getNonce", Err: stderrors.New("eof")}, CodeChainError, http.StatusServiceUnavailable},
		{"unknown", stderrors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromSigning(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromSigning_PassesAppErrorThrough(t *testing.T) {
	orig := NotFound("Authorization")
	assert.Same(t, orig, FromSigning(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, FromSigning(nil))
}

func TestAppError_Error(t *testing.T) {
	err := DBError(stderrors.New("conn reset"))
	assert.Equal(t, "DB_ERROR: Database error occurred: conn reset", err.Error())
	assert.Equal(t, "NOT_FOUND: Authorization not found", NotFound("Authorization").Error())
}
