// Package signer produces recoverable secp256k1 signatures over 32-byte digests.
//
// Signatures are deterministic (RFC 6979 nonces) and low-s. Private key
// material is never logged; KeySigner's String form only shows its address.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer is an abstract signing capability. Implementations may hold a local
// key, talk to a remote signer, or be test doubles.
type Signer interface {
	// Address returns the address signatures recover to
	Address() common.Address

	// SignDigest returns r || s || v with v in {0, 1}
	SignDigest(digest common.Hash) ([]byte, error)
}

// KeyError reports an unusable private key. It is raised before any curve operation.
type KeyError struct {
	Reason string
}

func (e *KeyError) Error() string {
	return "invalid private key: " + e.Reason
}

// IsKeyError reports whether err is or wraps a *KeyError
func IsKeyError(err error) bool {
	var keyErr *KeyError
	return errors.As(err, &keyErr)
}

// ValidateKeyBytes checks a raw 32-byte scalar is in [1, N-1]
func ValidateKeyBytes(b []byte) error {
	if len(b) != 32 {
		return &KeyError{Reason: fmt.Sprintf("expected 32 bytes, got %d", len(b))}
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		return &KeyError{Reason: "scalar is not below the curve order"}
	}
	if scalar.IsZero() {
		return &KeyError{Reason: "scalar is zero"}
	}
	return nil
}

// ValidateKey checks the key's scalar is in [1, N-1]
func ValidateKey(key *ecdsa.PrivateKey) error {
	if key == nil || key.D == nil || key.Curve == nil {
		return &KeyError{Reason: "key is nil"}
	}
	if key.D.Sign() <= 0 || key.D.BitLen() > 256 {
		return &KeyError{Reason: "scalar is out of range"}
	}
	return ValidateKeyBytes(crypto.FromECDSA(key))
}

// Sign signs digest with key. It keeps no state between calls.
func Sign(digest common.Hash, key *ecdsa.PrivateKey) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return sig, nil
}

// KeySigner signs with an in-memory private key
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// Compile-time interface compliance check
var _ Signer = (*KeySigner)(nil)

// NewKeySigner wraps an existing private key
func NewKeySigner(key *ecdsa.PrivateKey) (*KeySigner, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewKeySignerFromHex parses a hex private key, with or without 0x prefix
func NewKeySignerFromHex(privateKeyHex string) (*KeySigner, error) {
	privateKeyHex = strings.TrimSpace(privateKeyHex)
	if !strings.HasPrefix(privateKeyHex, "0x") && !strings.HasPrefix(privateKeyHex, "0X") {
		privateKeyHex = "0x" + privateKeyHex
	}

	b, err := hexutil.Decode(privateKeyHex)
	if err != nil {
		return nil, &KeyError{Reason: "malformed hex"}
	}
	if err := ValidateKeyBytes(b); err != nil {
		return nil, err
	}

	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, &KeyError{Reason: err.Error()}
	}
	return NewKeySigner(key)
}

// NewKeySignerFromKeystore decrypts an encrypted JSON keystore
func NewKeySignerFromKeystore(keystoreJSON []byte, password string) (*KeySigner, error) {
	key, err := keystore.DecryptKey(keystoreJSON, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return NewKeySigner(key.PrivateKey)
}

// Address returns the signer's address
func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignDigest signs a 32-byte digest
func (s *KeySigner) SignDigest(digest common.Hash) ([]byte, error) {
	return Sign(digest, s.key)
}

// PrivateKey exposes the key for collaborators that need it (transaction signing)
func (s *KeySigner) PrivateKey() *ecdsa.PrivateKey {
	return s.key
}

// String never prints key material
func (s *KeySigner) String() string {
	return "KeySigner(" + s.address.Hex() + ")"
}

// GoString never prints key material
func (s *KeySigner) GoString() string {
	return s.String()
}
