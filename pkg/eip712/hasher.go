package eip712

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Values maps field names to message values
type Values map[string]any

// digestPrefix is the EIP-191 version byte pair for structured data
var digestPrefix = []byte{0x19, 0x01}

// Digest computes keccak256(0x19 0x01 || domainSeparator || structHash).
// It is a pure function of its inputs.
func Digest(domain *Domain, schema *Schema, values Values) (common.Hash, error) {
	if domain == nil {
		return common.Hash{}, &SchemaError{Type: DomainTypeName, Reason: "domain is required"}
	}

	structHash, err := StructHash(schema, values)
	if err != nil {
		return common.Hash{}, err
	}
	return TypedDataHash(domain.Separator(), structHash), nil
}

// TypedDataHash combines a domain separator and a struct hash into the signing digest
func TypedDataHash(domainSeparator, structHash common.Hash) common.Hash {
	rawData := make([]byte, 0, 66) // 2 + 32 + 32
	rawData = append(rawData, digestPrefix...)
	rawData = append(rawData, domainSeparator.Bytes()...)
	rawData = append(rawData, structHash.Bytes()...)
	return crypto.Keccak256Hash(rawData)
}

// StructHash computes keccak256(typeHash || enc(field_1) || ... || enc(field_n))
func StructHash(schema *Schema, values Values) (common.Hash, error) {
	encoded, err := EncodeData(schema, values)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// EncodeData returns typeHash followed by each field encoded as 32 bytes, in declaration order
func EncodeData(schema *Schema, values Values) ([]byte, error) {
	if schema == nil {
		return nil, &SchemaError{Reason: "schema is required"}
	}
	if len(values) != len(schema.fields) {
		for name := range values {
			if !schema.Has(name) {
				return nil, &SchemaError{Type: schema.name, Field: name, Reason: "field not declared in schema"}
			}
		}
	}

	buf := make([]byte, 0, 32*(len(schema.fields)+1))
	buf = append(buf, schema.typeHash.Bytes()...)

	for _, field := range schema.fields {
		value, ok := values[field.Name]
		if !ok {
			return nil, &SchemaError{Type: schema.name, Field: field.Name, Reason: "missing value"}
		}
		word, err := encodeValue(field.Type, value)
		if err != nil {
			return nil, &SchemaError{Type: schema.name, Field: field.Name, Reason: err.Error()}
		}
		buf = append(buf, word[:]...)
	}
	return buf, nil
}

// encodeValue encodes a single primitive value into its 32-byte word.
// Strings are hashed; fixed-size values are left-padded.
func encodeValue(fieldType FieldType, value any) ([32]byte, error) {
	var word [32]byte

	switch fieldType {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return word, fmt.Errorf("expected string, got %T", value)
		}
		return crypto.Keccak256Hash([]byte(str)), nil

	case TypeAddress:
		addr, err := toAddress(value)
		if err != nil {
			return word, err
		}
		copy(word[12:], addr.Bytes())
		return word, nil

	case TypeBytes32:
		return toBytes32(value)

	case TypeUint256:
		n, err := toUint256(value)
		if err != nil {
			return word, err
		}
		return n.Bytes32(), nil
	}

	return word, fmt.Errorf("unsupported field type %s", fieldType)
}

func toAddress(value any) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		if v == nil {
			return common.Address{}, fmt.Errorf("nil address")
		}
		return *v, nil
	case string:
		if !common.IsHexAddress(v) {
			return common.Address{}, fmt.Errorf("invalid address %q", v)
		}
		return common.HexToAddress(v), nil
	}
	return common.Address{}, fmt.Errorf("expected address, got %T", value)
}

func toBytes32(value any) ([32]byte, error) {
	var word [32]byte
	switch v := value.(type) {
	case common.Hash:
		return v, nil
	case *common.Hash:
		if v == nil {
			return word, fmt.Errorf("nil bytes32")
		}
		return *v, nil
	case [32]byte:
		return v, nil
	case []byte:
		if len(v) != 32 {
			return word, fmt.Errorf("bytes32 value has %d bytes", len(v))
		}
		copy(word[:], v)
		return word, nil
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return word, fmt.Errorf("invalid bytes32 %q: %w", v, err)
		}
		return toBytes32(b)
	}
	return word, fmt.Errorf("expected bytes32, got %T", value)
}

func toUint256(value any) (*uint256.Int, error) {
	switch v := value.(type) {
	case *uint256.Int:
		if v == nil {
			return nil, fmt.Errorf("nil uint256")
		}
		return v, nil
	case uint256.Int:
		return &v, nil
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("nil uint256")
		}
		if v.Sign() < 0 {
			return nil, fmt.Errorf("negative uint256 %s", v)
		}
		n, overflow := uint256.FromBig(v)
		if overflow {
			return nil, fmt.Errorf("uint256 overflow %s", v)
		}
		return n, nil
	case uint64:
		return uint256.NewInt(v), nil
	case int:
		if v < 0 {
			return nil, fmt.Errorf("negative uint256 %d", v)
		}
		return uint256.NewInt(uint64(v)), nil
	case int64:
		if v < 0 {
			return nil, fmt.Errorf("negative uint256 %d", v)
		}
		return uint256.NewInt(uint64(v)), nil
	case string:
		if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
			return uint256.FromHex(v)
		}
		return uint256.FromDecimal(v)
	}
	return nil, fmt.Errorf("expected uint256, got %T", value)
}
