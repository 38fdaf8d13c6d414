package eip712

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const (
	// DomainTypeName is the primary type name of the domain struct
	DomainTypeName = "EIP712Domain"

	// DomainEncodedType is the canonical type string of the domain struct.
	// Only the four-field form (no salt) is supported.
	DomainEncodedType = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
)

var domainTypeHash = crypto.Keccak256Hash([]byte(DomainEncodedType))

// Domain identifies exactly one (protocol, version, chain, contract) signing context.
// The zero value is not usable; construct with NewDomain.
type Domain struct {
	name              string
	version           string
	chainID           uint256.Int
	verifyingContract common.Address
	separator         common.Hash
}

// NewDomain creates an immutable domain descriptor and precomputes its separator
func NewDomain(name, version string, chainID *uint256.Int, verifyingContract common.Address) (*Domain, error) {
	if chainID == nil {
		return nil, &SchemaError{Type: DomainTypeName, Field: "chainId", Reason: "chain id is required"}
	}

	d := &Domain{
		name:              name,
		version:           version,
		verifyingContract: verifyingContract,
	}
	d.chainID.Set(chainID)
	d.separator = d.hash()
	return d, nil
}

// MustNewDomain is like NewDomain but panics on error
func MustNewDomain(name, version string, chainID uint64, verifyingContract common.Address) *Domain {
	d, err := NewDomain(name, version, uint256.NewInt(chainID), verifyingContract)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the protocol name
func (d *Domain) Name() string { return d.name }

// Version returns the protocol version
func (d *Domain) Version() string { return d.version }

// ChainID returns a copy of the chain identifier
func (d *Domain) ChainID() *uint256.Int { return d.chainID.Clone() }

// VerifyingContract returns the address of the contract that verifies signatures
func (d *Domain) VerifyingContract() common.Address { return d.verifyingContract }

// Separator returns the domain separator hash
func (d *Domain) Separator() common.Hash { return d.separator }

// Equal reports whether both descriptors name the same signing context
func (d *Domain) Equal(other *Domain) bool {
	if other == nil {
		return false
	}
	return d.name == other.name &&
		d.version == other.version &&
		d.chainID.Eq(&other.chainID) &&
		d.verifyingContract == other.verifyingContract
}

// hash computes keccak256(typeHash || keccak(name) || keccak(version) || chainId || verifyingContract)
func (d *Domain) hash() common.Hash {
	buf := make([]byte, 0, 5*32)
	buf = append(buf, domainTypeHash.Bytes()...)
	buf = append(buf, crypto.Keccak256([]byte(d.name))...)
	buf = append(buf, crypto.Keccak256([]byte(d.version))...)
	chainID := d.chainID.Bytes32()
	buf = append(buf, chainID[:]...)
	buf = append(buf, common.LeftPadBytes(d.verifyingContract.Bytes(), 32)...)
	return crypto.Keccak256Hash(buf)
}
