package eip712

import (
	"sort"
	"sync"
)

// Variant selects a message schema. It is chosen by the calling context, never inferred.
type Variant string

const (
	// VariantBase is register(name, to, nonce, deadline)
	VariantBase Variant = "base"
	// VariantHierarchical adds a parentNode between name and to
	VariantHierarchical Variant = "hierarchical"
)

// Field names shared by the register schemas
const (
	FieldName       = "name"
	FieldParentNode = "parentNode"
	FieldTo         = "to"
	FieldNonce      = "nonce"
	FieldDeadline   = "deadline"
)

// RegisterTypeName is the primary type name used by the verifying contract
const RegisterTypeName = "register"

var (
	registerSchema = MustNewSchema(RegisterTypeName,
		Field{Name: FieldName, Type: TypeString},
		Field{Name: FieldTo, Type: TypeAddress},
		Field{Name: FieldNonce, Type: TypeUint256},
		Field{Name: FieldDeadline, Type: TypeUint256},
	)

	registerWithParentSchema = MustNewSchema(RegisterTypeName,
		Field{Name: FieldName, Type: TypeString},
		Field{Name: FieldParentNode, Type: TypeBytes32},
		Field{Name: FieldTo, Type: TypeAddress},
		Field{Name: FieldNonce, Type: TypeUint256},
		Field{Name: FieldDeadline, Type: TypeUint256},
	)
)

// RegisterSchema returns register(string name,address to,uint256 nonce,uint256 deadline)
func RegisterSchema() *Schema { return registerSchema }

// RegisterWithParentSchema returns
// register(string name,bytes32 parentNode,address to,uint256 nonce,uint256 deadline)
func RegisterWithParentSchema() *Schema { return registerWithParentSchema }

// Registry maps variants to schemas. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[Variant]*Schema
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[Variant]*Schema)}
}

// DefaultRegistry returns a registry holding the base and hierarchical register schemas
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.schemas[VariantBase] = registerSchema
	r.schemas[VariantHierarchical] = registerWithParentSchema
	return r
}

// Register adds a schema under the given variant. Re-registering a variant is rejected.
func (r *Registry) Register(variant Variant, schema *Schema) error {
	if variant == "" || schema == nil {
		return &SchemaError{Type: string(variant), Reason: "variant and schema are required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[variant]; exists {
		return &SchemaError{Type: schema.Name(), Reason: "variant " + string(variant) + " already registered"}
	}
	r.schemas[variant] = schema
	return nil
}

// Lookup returns the schema registered for variant
func (r *Registry) Lookup(variant Variant) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[variant]
	if !ok {
		return nil, &SchemaError{Type: string(variant), Reason: "unknown schema variant"}
	}
	return schema, nil
}

// Variants lists registered variants in sorted order
func (r *Registry) Variants() []Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Variant, 0, len(r.schemas))
	for v := range r.schemas {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
