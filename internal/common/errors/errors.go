package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/ahwlsqja/permission-mw-signer/pkg/authorizer"
	"github.com/ahwlsqja/permission-mw-signer/pkg/chain"
	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ahwlsqja/permission-mw-signer/pkg/nonce"
	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ahwlsqja/permission-mw-signer/pkg/signer"
)

// Error codes
const (
	// 4xx Client Errors
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeNonceReserved    = "NONCE_RESERVED"
	CodeNonceMismatch    = "NONCE_MISMATCH"
	CodeDeadlineExpired  = "DEADLINE_EXPIRED"
	CodeSchemaError      = "SCHEMA_ERROR"
	CodeInvalidState     = "INVALID_STATE_TRANSITION"
	CodeRateLimited      = "RATE_LIMITED"
	CodeRegistrationFail = "REGISTRATION_REVERTED"

	// 5xx Server Errors
	CodeInternal       = "INTERNAL_ERROR"
	CodeDBError        = "DB_ERROR"
	CodeRedisError     = "REDIS_ERROR"
	CodeKeyError       = "KEY_ERROR"
	CodeSignatureRange = "SIGNATURE_RANGE"
	CodeChainError     = "CHAIN_ERROR"
	CodeNotConfigured  = "NOT_CONFIGURED"
)

// AppError represents a structured application error
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// Error constructors

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NonceReserved(recipient, nonce string) *AppError {
	return &AppError{
		Code:       CodeNonceReserved,
		Message:    "An authorization for this recipient and nonce is already outstanding",
		StatusCode: http.StatusConflict,
		Details: map[string]any{
			"recipient": recipient,
			"nonce":     nonce,
		},
	}
}

func InvalidStateTransition(from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidState,
		Message:    fmt.Sprintf("Cannot transition from %s to %s", from, to),
		StatusCode: http.StatusConflict,
		Details: map[string]any{
			"from": from,
			"to":   to,
		},
	}
}

func RateLimited() *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    "Too many requests. Please try again later.",
		StatusCode: http.StatusTooManyRequests,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func DBError(err error) *AppError {
	return &AppError{
		Code:       CodeDBError,
		Message:    "Database error occurred",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

func RedisError(err error) *AppError {
	return &AppError{
		Code:       CodeRedisError,
		Message:    "Nonce reservation store unavailable",
		StatusCode: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func ChainError(message string) *AppError {
	return &AppError{
		Code:       CodeChainError,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

func NotConfigured(feature string) *AppError {
	return &AppError{
		Code:       CodeNotConfigured,
		Message:    fmt.Sprintf("%s is not configured", feature),
		StatusCode: http.StatusNotImplemented,
	}
}

// FromSigning maps errors of the signing pipeline and its collaborators to AppErrors.
// Unknown errors become internal errors with the cause attached.
func FromSigning(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, authorizer.ErrDeadlineExpired):
		return &AppError{Code: CodeDeadlineExpired, Message: "Deadline has already passed", StatusCode: http.StatusBadRequest, Err: err}
	case stderrors.Is(err, authorizer.ErrNonceMismatch):
		return &AppError{Code: CodeNonceMismatch, Message: "Nonce does not match the on-chain nonce", StatusCode: http.StatusConflict, Err: err}
	case stderrors.Is(err, authorizer.ErrEmptyName),
		stderrors.Is(err, authorizer.ErrMissingNonce),
		stderrors.Is(err, authorizer.ErrMissingDeadline),
		stderrors.Is(err, authorizer.ErrMissingParentNode),
		stderrors.Is(err, authorizer.ErrUnexpectedParentNode):
		return InvalidInput(err.Error()).WithError(err)
	case stderrors.Is(err, authorizer.ErrNoOracle):
		return NotConfigured("Nonce oracle").WithError(err)
	case stderrors.Is(err, nonce.ErrNonceAlreadyUsed):
		return &AppError{Code: CodeNonceReserved, Message: "An authorization for this recipient and nonce is already outstanding", StatusCode: http.StatusConflict, Err: err}
	case stderrors.Is(err, chain.ErrReverted):
		return &AppError{Code: CodeRegistrationFail, Message: "Registration transaction reverted", StatusCode: http.StatusUnprocessableEntity, Err: err}
	case eip712.IsSchemaError(err):
		return &AppError{Code: CodeSchemaError, Message: err.Error(), StatusCode: http.StatusBadRequest, Err: err}
	case signer.IsKeyError(err):
		return &AppError{Code: CodeKeyError, Message: "Signing key is unusable", StatusCode: http.StatusInternalServerError, Err: err}
	case sigcodec.IsRangeError(err), stderrors.Is(err, authorizer.ErrSelfVerification):
		return &AppError{Code: CodeSignatureRange, Message: "Signer produced an invalid signature", StatusCode: http.StatusInternalServerError, Err: err}
	case chain.IsCallError(err):
		return ChainError("Chain call failed").WithError(err)
	}
	return Internal("An unexpected error occurred").WithError(err)
}
