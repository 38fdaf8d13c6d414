package authorization

import (
	"strings"
	"time"

	"github.com/ahwlsqja/permission-mw-signer/internal/common/errors"
	"github.com/ahwlsqja/permission-mw-signer/internal/repository/db"
	"github.com/ahwlsqja/permission-mw-signer/pkg/authorizer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ============================================================================
// Request DTOs
// ============================================================================

// IssueAuthorizationRequest asks the signer to authorize a name registration.
// Nonce defaults to the on-chain nonce, deadline to now plus the configured TTL.
type IssueAuthorizationRequest struct {
	Name       string `json:"name" binding:"required,max=255" example:"alice"`
	Recipient  string `json:"recipient" binding:"required,len=42" example:"0x70997970C51812dc3A010C7d01b50e0d17dc79C8"`
	ParentNode string `json:"parent_node,omitempty" binding:"omitempty,len=66" example:"0xbfa0715290784075e564f966fffd9898ace1d7814f833780f62e59b079135746"`
	Nonce      string `json:"nonce,omitempty" binding:"omitempty,numeric,max=78" example:"0"`
	Deadline   string `json:"deadline,omitempty" binding:"omitempty,numeric,max=78" example:"1893456000"`
}

// SubmitAuthorizationRequest carries the optional extraData for register()
type SubmitAuthorizationRequest struct {
	ExtraData string `json:"extra_data,omitempty" example:"0x"`
}

// ListQuery is the pagination query for list endpoints
type ListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100" example:"20"`
	Offset int `form:"offset" binding:"omitempty,min=0" example:"0"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// AuthorizationResponse is an issued authorization as returned by the API
type AuthorizationResponse struct {
	ID                string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SchemaVariant     string    `json:"schema_variant" example:"base"`
	ChainID           uint64    `json:"chain_id" example:"80001"`
	VerifyingContract string    `json:"verifying_contract" example:"0x78a4c35cccc4eca7d987fdc38811c73ed36c2321"`
	Name              string    `json:"name" example:"alice"`
	ParentNode        string    `json:"parent_node,omitempty"`
	Recipient         string    `json:"recipient" example:"0x70997970c51812dc3a010c7d01b50e0d17dc79c8"`
	Nonce             string    `json:"nonce" example:"0"`
	Deadline          string    `json:"deadline" example:"1893456000"`
	Digest            string    `json:"digest"`
	Signature         string    `json:"signature"`
	Authorization     string    `json:"authorization"`
	Signer            string    `json:"signer" example:"0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"`
	Status            string    `json:"status" example:"issued"`
	TxHash            string    `json:"tx_hash,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ListAuthorizationsResponse is a page of a recipient's authorizations
type ListAuthorizationsResponse struct {
	Authorizations []AuthorizationResponse `json:"authorizations"`
	Total          int64                   `json:"total"`
}

// NonceResponse reports the nonce the contract expects next
type NonceResponse struct {
	Recipient string `json:"recipient" example:"0x70997970c51812dc3a010c7d01b50e0d17dc79c8"`
	Nonce     string `json:"nonce" example:"0"`
}

// PreviewResponse is the unsigned message for external signers
type PreviewResponse struct {
	Digest          string             `json:"digest"`
	DomainSeparator string             `json:"domain_separator"`
	StructType      string             `json:"struct_type" example:"register(string name,address to,uint256 nonce,uint256 deadline)"`
	TypedData       apitypes.TypedData `json:"typed_data" swaggertype:"object"`
}

// DomainResponse describes the signing domain this service signs under
type DomainResponse struct {
	Name              string `json:"name" example:"PermissionMw"`
	Version           string `json:"version" example:"1"`
	ChainID           string `json:"chain_id" example:"80001"`
	VerifyingContract string `json:"verifying_contract" example:"0x78a4c35cccc4eca7d987fdc38811c73ed36c2321"`
	Separator         string `json:"separator"`
	SchemaVariant     string `json:"schema_variant" example:"base"`
	StructType        string `json:"struct_type"`
	TypeHash          string `json:"type_hash"`
	Signer            string `json:"signer" example:"0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"`
	VConvention       string `json:"v_convention" example:"offset27"`
}

// ============================================================================
// Converters
// ============================================================================

// ToAuthorizationResponse converts db.Authorization to AuthorizationResponse
func ToAuthorizationResponse(a *db.Authorization) *AuthorizationResponse {
	if a == nil {
		return nil
	}

	response := &AuthorizationResponse{
		ID:                a.ExternalID,
		SchemaVariant:     a.SchemaVariant,
		ChainID:           a.ChainID,
		VerifyingContract: a.VerifyingContract,
		Name:              a.Name,
		Recipient:         a.Recipient,
		Nonce:             a.Nonce,
		Deadline:          a.Deadline,
		Digest:            a.Digest,
		Signature:         a.Signature,
		Authorization:     a.Payload,
		Signer:            a.SignerAddress,
		Status:            string(a.Status),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}

	if a.ParentNode.Valid {
		response.ParentNode = a.ParentNode.String
	}
	if a.TxHash.Valid {
		response.TxHash = a.TxHash.String
	}

	return response
}

// ToAuthorizationResponseList converts a slice of db.Authorization
func ToAuthorizationResponseList(items []db.Authorization) []AuthorizationResponse {
	responses := make([]AuthorizationResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToAuthorizationResponse(&items[i]))
	}
	return responses
}

// ============================================================================
// Parsing
// ============================================================================

// ParseAddress validates a 0x-prefixed 20-byte hex address
func ParseAddress(s string) (common.Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return common.Address{}, errors.InvalidInput("Address must start with 0x")
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.InvalidInput("Invalid Ethereum address")
	}
	return common.HexToAddress(s), nil
}

func parseUint256(field, s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.InvalidInput(field + " must be a decimal uint256")
	}
	return v, nil
}

func parseHash(field, s string) (*common.Hash, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return nil, errors.InvalidInput(field + " must be 32 bytes of 0x-prefixed hex")
	}
	h := common.BytesToHash(b)
	return &h, nil
}

// ToAuthorizerRequest validates the request body. A missing nonce or deadline stays nil.
func (r *IssueAuthorizationRequest) ToAuthorizerRequest() (authorizer.Request, error) {
	if strings.TrimSpace(r.Name) == "" {
		return authorizer.Request{}, errors.InvalidInput("name is required")
	}
	recipient, err := ParseAddress(r.Recipient)
	if err != nil {
		return authorizer.Request{}, err
	}
	parent, err := parseHash("parent_node", r.ParentNode)
	if err != nil {
		return authorizer.Request{}, err
	}
	n, err := parseUint256("nonce", r.Nonce)
	if err != nil {
		return authorizer.Request{}, err
	}
	deadline, err := parseUint256("deadline", r.Deadline)
	if err != nil {
		return authorizer.Request{}, err
	}

	return authorizer.Request{
		Name:       r.Name,
		Recipient:  recipient,
		ParentNode: parent,
		Nonce:      n,
		Deadline:   deadline,
	}, nil
}

func (q ListQuery) normalize() (int32, int32) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return int32(limit), int32(offset)
}
