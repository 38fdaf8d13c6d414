package eip712

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// ToTypedData renders the message in the eth_signTypedData_v4 JSON model.
// Wallets and external tooling can sign the result and must reach the same digest.
func ToTypedData(domain *Domain, schema *Schema, values Values) (apitypes.TypedData, error) {
	if domain == nil || schema == nil {
		return apitypes.TypedData{}, &SchemaError{Reason: "domain and schema are required"}
	}

	message := make(apitypes.TypedDataMessage, len(schema.fields))
	for _, field := range schema.fields {
		value, ok := values[field.Name]
		if !ok {
			return apitypes.TypedData{}, &SchemaError{Type: schema.name, Field: field.Name, Reason: "missing value"}
		}
		rendered, err := renderValue(field.Type, value)
		if err != nil {
			return apitypes.TypedData{}, &SchemaError{Type: schema.name, Field: field.Name, Reason: err.Error()}
		}
		message[field.Name] = rendered
	}

	fields := make([]apitypes.Type, len(schema.fields))
	for i, f := range schema.fields {
		fields[i] = apitypes.Type{Name: f.Name, Type: string(f.Type)}
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			DomainTypeName: {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			schema.name: fields,
		},
		PrimaryType: schema.name,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.name,
			Version:           domain.version,
			ChainId:           (*math.HexOrDecimal256)(domain.chainID.ToBig()),
			VerifyingContract: domain.verifyingContract.Hex(),
		},
		Message: message,
	}, nil
}

// renderValue converts a value into the JSON form apitypes accepts
func renderValue(fieldType FieldType, value any) (any, error) {
	switch fieldType {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return str, nil
	case TypeAddress:
		addr, err := toAddress(value)
		if err != nil {
			return nil, err
		}
		return addr.Hex(), nil
	case TypeBytes32:
		word, err := toBytes32(value)
		if err != nil {
			return nil, err
		}
		return hexutil.Encode(word[:]), nil
	case TypeUint256:
		n, err := toUint256(value)
		if err != nil {
			return nil, err
		}
		return n.Dec(), nil
	}
	return nil, fmt.Errorf("unsupported field type %s", fieldType)
}
