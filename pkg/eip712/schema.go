package eip712

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// FieldType is the declared type of a schema field
type FieldType string

// Supported primitive types
const (
	TypeString  FieldType = "string"
	TypeAddress FieldType = "address"
	TypeBytes32 FieldType = "bytes32"
	TypeUint256 FieldType = "uint256"
)

// Valid reports whether the type is one of the supported primitives
func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeAddress, TypeBytes32, TypeUint256:
		return true
	}
	return false
}

// Field is a single named, typed member of a schema
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema is a named, ordered field list. Field order is part of the type's identity.
type Schema struct {
	name        string
	fields      []Field
	encodedType string
	typeHash    common.Hash
}

// NewSchema validates the field list and precomputes the canonical type string and type hash
func NewSchema(name string, fields ...Field) (*Schema, error) {
	if !identifierPattern.MatchString(name) {
		return nil, &SchemaError{Type: name, Reason: "type name must be a valid identifier"}
	}
	if name == DomainTypeName {
		return nil, &SchemaError{Type: name, Reason: "type name is reserved"}
	}
	if len(fields) == 0 {
		return nil, &SchemaError{Type: name, Reason: "schema has no fields"}
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if !identifierPattern.MatchString(f.Name) {
			return nil, &SchemaError{Type: name, Field: f.Name, Reason: "field name must be a valid identifier"}
		}
		if _, dup := seen[f.Name]; dup {
			return nil, &SchemaError{Type: name, Field: f.Name, Reason: "duplicate field"}
		}
		if !f.Type.Valid() {
			return nil, &SchemaError{Type: name, Field: f.Name, Reason: "unsupported field type " + string(f.Type)}
		}
		seen[f.Name] = struct{}{}
	}

	s := &Schema{
		name:   name,
		fields: append([]Field(nil), fields...),
	}
	s.encodedType = encodeType(name, s.fields)
	s.typeHash = crypto.Keccak256Hash([]byte(s.encodedType))
	return s, nil
}

// MustNewSchema is like NewSchema but panics on error
func MustNewSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// encodeType builds "<Name>(<type> <field>,...)"
func encodeType(name string, fields []Field) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(f.Type))
		b.WriteByte(' ')
		b.WriteString(f.Name)
	}
	b.WriteByte(')')
	return b.String()
}

// Name returns the primary type name
func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the ordered field list
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// EncodeType returns the canonical type signature string
func (s *Schema) EncodeType() string { return s.encodedType }

// TypeHash returns keccak256 of the canonical type signature
func (s *Schema) TypeHash() common.Hash { return s.typeHash }

// Has reports whether the schema declares the named field
func (s *Schema) Has(field string) bool {
	for _, f := range s.fields {
		if f.Name == field {
			return true
		}
	}
	return false
}
