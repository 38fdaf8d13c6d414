package authorization

import (
	"github.com/ahwlsqja/permission-mw-signer/internal/common/errors"
	"github.com/ahwlsqja/permission-mw-signer/internal/common/middleware"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for authorization operations
type Handler struct {
	service *Service
}

// NewHandler creates a new authorization handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers authorization routes on the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authorizations := rg.Group("/authorizations")
	{
		authorizations.POST("", h.Issue)
		authorizations.GET("/:id", h.Get)
		authorizations.POST("/:id/submit", h.Submit)
	}

	recipients := rg.Group("/recipients/:address")
	{
		recipients.GET("/authorizations", h.ListByRecipient)
		recipients.GET("/nonce", h.GetNonce)
	}

	rg.POST("/typed-data", h.Preview)
	rg.GET("/domain", h.Domain)
}

func extractAndValidateID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.InvalidInput("Invalid UUID format")
	}
	return id, nil
}

func extractAddress(c *gin.Context) (common.Address, error) {
	return ParseAddress(c.Param("address"))
}

// Issue godoc
// @Summary Issue a register authorization
// @Description Sign an EIP-712 Register message for the recipient and store the encoded authorization
// @Tags authorizations
// @Accept json
// @Produce json
// @Param request body IssueAuthorizationRequest true "Name, recipient and optional nonce, deadline and parent node"
// @Success 201 {object} middleware.SuccessResponse{data=AuthorizationResponse} "Authorization issued"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input or expired deadline"
// @Failure 409 {object} middleware.ErrorResponse "Nonce already reserved or stale"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Failure 503 {object} middleware.ErrorResponse "Chain or nonce store unavailable"
// @Router /api/v1/authorizations [post]
func (h *Handler) Issue(c *gin.Context) {
	var req IssueAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.InvalidInput(err.Error()))
		return
	}

	a, err := h.service.Issue(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondCreated(c, ToAuthorizationResponse(a))
}

// Preview godoc
// @Summary Preview a register message
// @Description Return the digest and eth_signTypedData_v4 payload without signing
// @Tags authorizations
// @Accept json
// @Produce json
// @Param request body IssueAuthorizationRequest true "Message fields"
// @Success 200 {object} middleware.SuccessResponse{data=PreviewResponse} "Unsigned message"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Router /api/v1/typed-data [post]
func (h *Handler) Preview(c *gin.Context) {
	var req IssueAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.InvalidInput(err.Error()))
		return
	}

	preview, err := h.service.Preview(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, preview)
}

// Get godoc
// @Summary Get authorization by ID
// @Tags authorizations
// @Produce json
// @Param id path string true "Authorization external ID (UUID)"
// @Success 200 {object} middleware.SuccessResponse{data=AuthorizationResponse} "Authorization"
// @Failure 400 {object} middleware.ErrorResponse "Invalid UUID format"
// @Failure 404 {object} middleware.ErrorResponse "Authorization not found"
// @Router /api/v1/authorizations/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := extractAndValidateID(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, ToAuthorizationResponse(a))
}

// Submit godoc
// @Summary Submit an authorization to the registrar
// @Description Send register(...) with the stored authorization and wait for the receipt
// @Tags authorizations
// @Accept json
// @Produce json
// @Param id path string true "Authorization external ID (UUID)"
// @Param request body SubmitAuthorizationRequest false "Optional extraData"
// @Success 200 {object} middleware.SuccessResponse{data=AuthorizationResponse} "Registration confirmed"
// @Failure 404 {object} middleware.ErrorResponse "Authorization not found"
// @Failure 409 {object} middleware.ErrorResponse "Authorization already submitted"
// @Failure 422 {object} middleware.ErrorResponse "Registration reverted"
// @Failure 501 {object} middleware.ErrorResponse "Registrar not configured"
// @Router /api/v1/authorizations/{id}/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	id, err := extractAndValidateID(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	var req SubmitAuthorizationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondError(c, errors.InvalidInput(err.Error()))
			return
		}
	}

	a, err := h.service.Submit(c.Request.Context(), id, &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, ToAuthorizationResponse(a))
}

// ListByRecipient godoc
// @Summary List a recipient's authorizations
// @Tags recipients
// @Produce json
// @Param address path string true "Recipient address"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} middleware.SuccessResponse{data=ListAuthorizationsResponse} "Authorizations"
// @Failure 400 {object} middleware.ErrorResponse "Invalid address"
// @Router /api/v1/recipients/{address}/authorizations [get]
func (h *Handler) ListByRecipient(c *gin.Context) {
	recipient, err := extractAddress(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.RespondError(c, errors.InvalidInput(err.Error()))
		return
	}

	list, err := h.service.ListByRecipient(c.Request.Context(), recipient, query)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, list)
}

// GetNonce godoc
// @Summary Get a recipient's on-chain nonce
// @Tags recipients
// @Produce json
// @Param address path string true "Recipient address"
// @Success 200 {object} middleware.SuccessResponse{data=NonceResponse} "Current nonce"
// @Failure 400 {object} middleware.ErrorResponse "Invalid address"
// @Failure 501 {object} middleware.ErrorResponse "Nonce oracle not configured"
// @Failure 503 {object} middleware.ErrorResponse "Chain unavailable"
// @Router /api/v1/recipients/{address}/nonce [get]
func (h *Handler) GetNonce(c *gin.Context) {
	recipient, err := extractAddress(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	resp, err := h.service.GetNonce(c.Request.Context(), recipient)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, resp)
}

// Domain godoc
// @Summary Signing domain
// @Description The EIP-712 domain, struct type and signer address used for authorizations
// @Tags authorizations
// @Produce json
// @Success 200 {object} middleware.SuccessResponse{data=DomainResponse} "Domain"
// @Router /api/v1/domain [get]
func (h *Handler) Domain(c *gin.Context) {
	middleware.RespondOK(c, h.service.Domain())
}
