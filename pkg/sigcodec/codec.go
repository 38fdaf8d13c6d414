// Package sigcodec splits, validates and normalizes recoverable secp256k1 signatures.
//
// All functions are pure; nothing here signs or re-derives a signature.
package sigcodec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// SignatureLength is the byte length of r || s || v
	SignatureLength = 65

	// RecoveryIDOffset is the additive offset of the 27/28 convention
	RecoveryIDOffset = 27
)

// Convention is the v encoding the verifying contract expects
type Convention string

const (
	// ConventionOffset27 encodes v as 27 or 28 (ecrecover, ethers splitSignature)
	ConventionOffset27 Convention = "offset27"
	// ConventionRaw encodes v as the bare recovery id 0 or 1
	ConventionRaw Convention = "raw"
)

// ParseConvention parses a configured convention name
func ParseConvention(s string) (Convention, error) {
	switch Convention(strings.ToLower(strings.TrimSpace(s))) {
	case ConventionOffset27, "":
		return ConventionOffset27, nil
	case ConventionRaw:
		return ConventionRaw, nil
	}
	return "", fmt.Errorf("unknown v convention %q", s)
}

// RangeError reports a signature component outside its valid range
type RangeError struct {
	Component string
	Reason    string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("signature %s out of range: %s", e.Component, e.Reason)
}

// IsRangeError reports whether err is or wraps a *RangeError
func IsRangeError(err error) bool {
	var rangeErr *RangeError
	return errors.As(err, &rangeErr)
}

// Error definitions
var (
	ErrInvalidLength = errors.New("signature must be 65 bytes")
)

// Signature holds the three signature components. V is stored in the
// convention it was produced for; use RecoveryID for the bare 0/1 value.
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// RecoveryID returns v as 0 or 1
func (s Signature) RecoveryID() uint8 {
	if s.V >= RecoveryIDOffset {
		return s.V - RecoveryIDOffset
	}
	return s.V
}

// Bytes returns r || s || v
func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureLength)
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V
	return out
}

// Hex returns the 0x-prefixed hex of r || s || v
func (s Signature) Hex() string {
	return hexutil.Encode(s.Bytes())
}

// Split separates a 65-byte r || s || v signature and validates every component.
// The returned V keeps the caller's encoding (0/1 or 27/28).
func Split(raw []byte) (Signature, error) {
	if len(raw) != SignatureLength {
		return Signature{}, ErrInvalidLength
	}

	var sig Signature
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64]

	if _, err := recoveryID(sig.V); err != nil {
		return Signature{}, err
	}
	if err := ValidateRange(sig.R, sig.S); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// NormalizeV converts v (0, 1, 27 or 28) into the given convention
func NormalizeV(v uint8, conv Convention) (uint8, error) {
	id, err := recoveryID(v)
	if err != nil {
		return 0, err
	}

	switch conv {
	case ConventionOffset27:
		return id + RecoveryIDOffset, nil
	case ConventionRaw:
		return id, nil
	}
	return 0, fmt.Errorf("unknown v convention %q", conv)
}

// ValidateRange checks r and s are within [1, N-1] of the secp256k1 group order
func ValidateRange(r, s [32]byte) error {
	if err := validateScalar("r", r); err != nil {
		return err
	}
	return validateScalar("s", s)
}

// IsLowS reports whether s is at most N/2
func IsLowS(s [32]byte) bool {
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(s[:]); overflow {
		return false
	}
	return !scalar.IsOverHalfOrder()
}

func validateScalar(component string, b [32]byte) error {
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b[:]); overflow {
		return &RangeError{Component: component, Reason: "value is not below the curve order"}
	}
	if scalar.IsZero() {
		return &RangeError{Component: component, Reason: "value is zero"}
	}
	return nil
}

func recoveryID(v uint8) (uint8, error) {
	switch v {
	case 0, 1:
		return v, nil
	case RecoveryIDOffset, RecoveryIDOffset + 1:
		return v - RecoveryIDOffset, nil
	}
	return 0, &RangeError{Component: "v", Reason: fmt.Sprintf("unsupported recovery value %d", v)}
}

// Codec applies a fixed v convention and optional low-s policy
type Codec struct {
	Convention  Convention
	RequireLowS bool
}

// NewCodec creates a codec for the given convention. The zero value
// selects ConventionOffset27, as ParseConvention does.
func NewCodec(conv Convention, requireLowS bool) (*Codec, error) {
	if conv == "" {
		conv = ConventionOffset27
	}
	if _, err := NormalizeV(0, conv); err != nil {
		return nil, err
	}
	return &Codec{Convention: conv, RequireLowS: requireLowS}, nil
}

// Split splits raw and normalizes v to the codec's convention
func (c *Codec) Split(raw []byte) (Signature, error) {
	sig, err := Split(raw)
	if err != nil {
		return Signature{}, err
	}
	if c.RequireLowS && !IsLowS(sig.S) {
		return Signature{}, &RangeError{Component: "s", Reason: "value is above half the curve order"}
	}

	sig.V, err = NormalizeV(sig.V, c.Convention)
	if err != nil {
		return Signature{}, err
	}
	return sig, nil
}
