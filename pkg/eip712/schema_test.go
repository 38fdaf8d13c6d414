package eip712

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema_Errors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		fields []Field
	}{
		{"empty name", "", []Field{{Name: "a", Type: TypeString}}},
		{"bad name", "1register", []Field{{Name: "a", Type: TypeString}}},
		{"reserved name", DomainTypeName, []Field{{Name: "a", Type: TypeString}}},
		{"no fields", "register", nil},
		{"bad field name", "register", []Field{{Name: "bad field", Type: TypeString}}},
		{"duplicate field", "register", []Field{{Name: "a", Type: TypeString}, {Name: "a", Type: TypeAddress}}},
		{"unsupported type", "register", []Field{{Name: "a", Type: "uint8"}}},
		{"dynamic bytes", "register", []Field{{Name: "a", Type: "bytes"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSchema(tt.schema, tt.fields...)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.True(t, IsSchemaError(err))
		})
	}
}

func TestSchema_FieldOrderIsIdentity(t *testing.T) {
	a := MustNewSchema("register", Field{Name: "x", Type: TypeUint256}, Field{Name: "y", Type: TypeUint256})
	b := MustNewSchema("register", Field{Name: "y", Type: TypeUint256}, Field{Name: "x", Type: TypeUint256})

	assert.NotEqual(t, a.TypeHash(), b.TypeHash())
}

func TestSchema_FieldsIsCopy(t *testing.T) {
	s := RegisterSchema()
	fields := s.Fields()
	fields[0].Name = "changed"

	assert.Equal(t, FieldName, s.Fields()[0].Name)
	assert.True(t, s.Has(FieldDeadline))
	assert.False(t, s.Has(FieldParentNode))
}

func TestMustNewSchema_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNewSchema("register") })
}

func TestNewDomain(t *testing.T) {
	_, err := NewDomain("PermissionMw", "1", nil, common.Address{})
	assert.True(t, IsSchemaError(err))

	chainID := uint256.NewInt(80001)
	d, err := NewDomain("PermissionMw", "1", chainID, common.HexToAddress(testMiddleware))
	require.NoError(t, err)

	// Later changes to the caller's value do not leak into the domain
	chainID.SetUint64(1)
	assert.Equal(t, uint64(80001), d.ChainID().Uint64())
	assert.True(t, d.Equal(testDomain()))
	assert.Equal(t, testDomain().Separator(), d.Separator())
}

func TestDomain_EachFieldSeparates(t *testing.T) {
	vc := common.HexToAddress(testMiddleware)
	base := testDomain()

	variants := []*Domain{
		MustNewDomain("PermissionMW", "1", 80001, vc),
		MustNewDomain("PermissionMw", "1.0", 80001, vc),
		MustNewDomain("PermissionMw", "1", 1, vc),
		MustNewDomain("PermissionMw", "1", 80001, common.Address{}),
	}
	for _, d := range variants {
		assert.False(t, base.Equal(d))
		assert.NotEqual(t, base.Separator(), d.Separator())
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []Variant{VariantBase, VariantHierarchical}, r.Variants())

	s, err := r.Lookup(VariantBase)
	require.NoError(t, err)
	assert.Same(t, RegisterSchema(), s)

	s, err = r.Lookup(VariantHierarchical)
	require.NoError(t, err)
	assert.Same(t, RegisterWithParentSchema(), s)

	_, err = r.Lookup("subdomain")
	assert.True(t, IsSchemaError(err))

	err = r.Register(VariantBase, RegisterWithParentSchema())
	assert.True(t, IsSchemaError(err))

	custom := MustNewSchema("register", Field{Name: FieldName, Type: TypeString})
	require.NoError(t, r.Register("custom", custom))
	s, err = r.Lookup("custom")
	require.NoError(t, err)
	assert.Same(t, custom, s)

	assert.Error(t, r.Register("", custom))
}
