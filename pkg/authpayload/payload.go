// Package authpayload encodes the authorization blob consumed by the verifying
// contract: abi.encode(uint8 v, bytes32 r, bytes32 s, uint256 deadline).
package authpayload

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
)

// Size is the fixed byte length of an encoded authorization (4 words)
const Size = 4 * 32

// Error definitions
var (
	ErrNilDeadline   = errors.New("deadline is required")
	ErrInvalidLength = fmt.Errorf("encoded authorization must be %d bytes", Size)
)

var arguments = mustArguments("uint8", "bytes32", "bytes32", "uint256")

func mustArguments(types ...string) abi.Arguments {
	args := make(abi.Arguments, 0, len(types))
	for _, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(fmt.Sprintf("authpayload: abi type %s: %v", t, err))
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args
}

// Payload is the decoded form of an encoded authorization
type Payload struct {
	V        uint8
	R        [32]byte
	S        [32]byte
	Deadline *uint256.Int
}

// Signature returns the signature half of the payload
func (p *Payload) Signature() sigcodec.Signature {
	return sigcodec.Signature{V: p.V, R: p.R, S: p.S}
}

// Encode packs (v, r, s, deadline), each left-padded to 32 bytes, in that order
func Encode(v uint8, r, s [32]byte, deadline *uint256.Int) ([]byte, error) {
	if deadline == nil {
		return nil, ErrNilDeadline
	}

	data, err := arguments.Pack(v, r, s, deadline.ToBig())
	if err != nil {
		return nil, fmt.Errorf("failed to pack authorization: %w", err)
	}
	return data, nil
}

// EncodeSignature is Encode for an already split signature
func EncodeSignature(sig sigcodec.Signature, deadline *uint256.Int) ([]byte, error) {
	return Encode(sig.V, sig.R, sig.S, deadline)
}

// Decode unpacks an encoded authorization. Inputs of any other length are rejected.
func Decode(data []byte) (*Payload, error) {
	if len(data) != Size {
		return nil, ErrInvalidLength
	}

	values, err := arguments.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack authorization: %w", err)
	}

	v, ok := values[0].(uint8)
	if !ok {
		return nil, fmt.Errorf("unexpected v type %T", values[0])
	}
	r, ok := values[1].([32]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected r type %T", values[1])
	}
	s, ok := values[2].([32]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected s type %T", values[2])
	}
	rawDeadline, ok := values[3].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected deadline type %T", values[3])
	}

	deadline, overflow := uint256.FromBig(rawDeadline)
	if overflow {
		return nil, fmt.Errorf("deadline overflows uint256")
	}

	return &Payload{V: v, R: r, S: s, Deadline: deadline}, nil
}
