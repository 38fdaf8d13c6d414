package eip712

import (
	"fmt"

	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Recover returns the address that produced signature over the typed message.
// It performs the same steps as the verifying contract.
func Recover(domain *Domain, schema *Schema, values Values, signature []byte) (common.Address, error) {
	if len(signature) != sigcodec.SignatureLength {
		return common.Address{}, ErrInvalidSignatureLen
	}

	// 1. Digest
	digest, err := Digest(domain, schema, values)
	if err != nil {
		return common.Address{}, err
	}

	return RecoverDigest(digest, signature)
}

// RecoverDigest recovers the signer of a precomputed digest
func RecoverDigest(digest common.Hash, signature []byte) (common.Address, error) {
	// 1. Split and range-check r, s, v
	sig, err := sigcodec.Split(signature)
	if err != nil {
		return common.Address{}, err
	}

	// 2. Normalize v value (27/28 -> 0/1)
	raw := sig.Bytes()
	raw[64] = sig.RecoveryID()

	// 3. Recover public key from signature
	pubKey, err := crypto.SigToPub(digest.Bytes(), raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	// 4. Derive address from public key
	return crypto.PubkeyToAddress(*pubKey), nil
}

// Verify checks that signature over the typed message was produced by expected
func Verify(domain *Domain, schema *Schema, values Values, signature []byte, expected common.Address) error {
	recovered, err := Recover(domain, schema, values, signature)
	if err != nil {
		return err
	}
	if recovered != expected {
		return fmt.Errorf("%w: got %s, want %s", ErrAddressMismatch, recovered.Hex(), expected.Hex())
	}
	return nil
}
