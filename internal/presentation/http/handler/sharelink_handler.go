package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
)

// ShareLinkHandler handles share link management and the public share
// endpoints that serve documents to link holders
type ShareLinkHandler struct {
	shareLinkService *service.ShareLinkService
}

// NewShareLinkHandler creates a new share link handler
func NewShareLinkHandler(shareLinkService *service.ShareLinkService) *ShareLinkHandler {
	return &ShareLinkHandler{shareLinkService: shareLinkService}
}

// CreateShareLinkRequest represents the create share link request body
type CreateShareLinkRequest struct {
	DocumentType string  `json:"document_type" binding:"required"`
	DocumentID   string  `json:"document_id" binding:"required"`
	Password     *string `json:"password"`
	ExpiresAt    *string `json:"expires_at"`
}

// SharePasswordRequest carries the optional password for a protected link
type SharePasswordRequest struct {
	Password *string `json:"password"`
}

// Create handles issuing a share link for a document
// @Summary Create Share Link
// @Description Issue a public link for a quotation or invoice
// @Tags share-links
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateShareLinkRequest true "Share link data"
// @Success 201 {object} response.APIResponse
// @Router /share-links [post]
func (h *ShareLinkHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	docType := entity.ShareDocumentType(req.DocumentType)
	if docType != entity.ShareDocumentQuotation && docType != entity.ShareDocumentInvoice {
		response.BadRequest(c, "Document type must be quotation or invoice")
		return
	}

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	expiresAt, err := parseDatePtr(req.ExpiresAt)
	if err != nil {
		response.BadRequest(c, "Invalid expiry date. Use YYYY-MM-DD")
		return
	}

	link, err := h.shareLinkService.Create(c.Request.Context(), &service.CreateShareLinkInput{
		UserID:       *userID,
		DocumentType: docType,
		DocumentID:   documentID,
		Password:     req.Password,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Share link created successfully", link)
}

// ListByDocument handles listing a document's share links
// @Summary List Share Links
// @Description Get all share links issued for a document
// @Tags share-links
// @Security BearerAuth
// @Produce json
// @Param document_id query string true "Document ID"
// @Success 200 {object} response.APIResponse
// @Router /share-links [get]
func (h *ShareLinkHandler) ListByDocument(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	documentID, err := uuid.Parse(c.Query("document_id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	links, err := h.shareLinkService.ListByDocument(c.Request.Context(), *userID, documentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Share links retrieved successfully", links)
}

// Delete handles revoking a share link
// @Summary Delete Share Link
// @Description Revoke a share link; its token stops resolving immediately
// @Tags share-links
// @Security BearerAuth
// @Param id path string true "Share link ID"
// @Success 204
// @Router /share-links/{id} [delete]
func (h *ShareLinkHandler) Delete(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid share link ID")
		return
	}

	if err := h.shareLinkService.Delete(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetSharedDocument serves a document to a link holder. No authentication;
// the token is the credential, plus the link password when one is set.
// @Summary View Shared Document
// @Description Resolve a share token and return the document
// @Tags share
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param request body SharePasswordRequest false "Link password"
// @Success 200 {object} response.APIResponse
// @Router /share/{token} [post]
func (h *ShareLinkHandler) GetSharedDocument(c *gin.Context) {
	var req SharePasswordRequest
	// Body is optional for links without a password
	_ = c.ShouldBindJSON(&req)

	doc, err := h.shareLinkService.GetDocument(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document retrieved successfully", doc)
}

// AcceptSharedQuotation lets a link holder accept a shared quotation
// @Summary Accept Shared Quotation
// @Description Accept a quotation through its share link
// @Tags share
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param request body SharePasswordRequest false "Link password"
// @Success 200 {object} response.APIResponse
// @Router /share/{token}/accept [post]
func (h *ShareLinkHandler) AcceptSharedQuotation(c *gin.Context) {
	h.respond(c, true)
}

// RejectSharedQuotation lets a link holder reject a shared quotation
// @Summary Reject Shared Quotation
// @Description Reject a quotation through its share link
// @Tags share
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param request body SharePasswordRequest false "Link password"
// @Success 200 {object} response.APIResponse
// @Router /share/{token}/reject [post]
func (h *ShareLinkHandler) RejectSharedQuotation(c *gin.Context) {
	h.respond(c, false)
}

func (h *ShareLinkHandler) respond(c *gin.Context, accept bool) {
	var req SharePasswordRequest
	_ = c.ShouldBindJSON(&req)

	quotation, err := h.shareLinkService.RespondToQuotation(c.Request.Context(), c.Param("token"), req.Password, accept)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Quotation rejected"
	if accept {
		message = "Quotation accepted"
	}
	response.OK(c, message, quotation)
}
