package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PermissionMwABI is the subset of the permission middleware ABI used for nonce lookups
const PermissionMwABI = `[
	{"type":"function","name":"getNonce","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]}
]`

// RegistrarABI is the base registrar entry point
const RegistrarABI = `[
	{"type":"function","name":"register","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"name","type":"string"},
		{"name":"to","type":"address"},
		{"name":"authorization","type":"bytes"},
		{"name":"extraData","type":"bytes"}],
	 "outputs":[]}
]`

// HierarchicalRegistrarABI is the registrar entry point for names under a parent node
const HierarchicalRegistrarABI = `[
	{"type":"function","name":"register","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"name","type":"string"},
		{"name":"parentNode","type":"bytes32"},
		{"name":"to","type":"address"},
		{"name":"authorization","type":"bytes"},
		{"name":"extraData","type":"bytes"}],
	 "outputs":[]}
]`

const (
	methodGetNonce = "getNonce"
	methodRegister = "register"
)

var (
	permissionMwABI          = mustParseABI(PermissionMwABI)
	registrarABI             = mustParseABI(RegistrarABI)
	hierarchicalRegistrarABI = mustParseABI(HierarchicalRegistrarABI)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("chain: invalid embedded ABI: %v", err))
	}
	return parsed
}
