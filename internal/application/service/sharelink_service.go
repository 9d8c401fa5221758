package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/apperror"
)

// ShareLinkService manages public share links for quotations and invoices.
// Token access bypasses authentication; everything resolved through a token
// is scoped to the link owner's data and nothing else.
type ShareLinkService struct {
	shareLinkRepo    repository.ShareLinkRepository
	quotationRepo    repository.QuotationRepository
	invoiceRepo      repository.InvoiceRepository
	quotationService *QuotationService
}

// NewShareLinkService creates a new share link service
func NewShareLinkService(
	shareLinkRepo repository.ShareLinkRepository,
	quotationRepo repository.QuotationRepository,
	invoiceRepo repository.InvoiceRepository,
	quotationService *QuotationService,
) *ShareLinkService {
	return &ShareLinkService{
		shareLinkRepo:    shareLinkRepo,
		quotationRepo:    quotationRepo,
		invoiceRepo:      invoiceRepo,
		quotationService: quotationService,
	}
}

// CreateShareLinkInput represents the input for creating a share link
type CreateShareLinkInput struct {
	UserID       uuid.UUID
	DocumentType entity.ShareDocumentType
	DocumentID   uuid.UUID
	Password     *string
	ExpiresAt    *time.Time
}

// Create issues a new share link for a document the user owns. The expiry,
// when given, is pushed to the end of its day so a link "valid until" a
// date works for that whole date.
func (s *ShareLinkService) Create(ctx context.Context, input *CreateShareLinkInput) (*entity.ShareLink, error) {
	switch input.DocumentType {
	case entity.ShareDocumentQuotation:
		quotation, err := s.quotationRepo.GetByID(ctx, input.UserID, input.DocumentID)
		if err != nil {
			return nil, err
		}
		if quotation == nil {
			return nil, apperror.NewNotFoundError("Quotation")
		}
	case entity.ShareDocumentInvoice:
		invoice, err := s.invoiceRepo.GetByID(ctx, input.UserID, input.DocumentID)
		if err != nil {
			return nil, err
		}
		if invoice == nil {
			return nil, apperror.NewNotFoundError("Invoice")
		}
	default:
		return nil, apperror.NewFieldValidationError("document_type", "must be quotation or invoice")
	}

	link := &entity.ShareLink{
		UserID:       input.UserID,
		Token:        newShareToken(),
		DocumentType: input.DocumentType,
		DocumentID:   input.DocumentID,
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		link.PasswordHash = &hashStr
	}

	if input.ExpiresAt != nil {
		eod := endOfDay(*input.ExpiresAt)
		link.ExpiresAt = &eod
	}

	if err := s.shareLinkRepo.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// newShareToken builds an unguessable URL-safe token
func newShareToken() string {
	return strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// ListByDocument returns the share links issued for a document
func (s *ShareLinkService) ListByDocument(ctx context.Context, userID, documentID uuid.UUID) ([]entity.ShareLink, error) {
	return s.shareLinkRepo.ListByDocument(ctx, userID, documentID)
}

// Delete revokes a share link
func (s *ShareLinkService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	link, err := s.shareLinkRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if link == nil {
		return apperror.NewNotFoundError("Share link")
	}
	return s.shareLinkRepo.Delete(ctx, link.ID)
}

// SharedDocument is what a share link resolves to
type SharedDocument struct {
	Type      entity.ShareDocumentType `json:"type"`
	Quotation *entity.Quotation        `json:"quotation,omitempty"`
	Invoice   *entity.Invoice          `json:"invoice,omitempty"`
}

// resolve loads and checks a link: unknown, expired and revoked tokens all
// answer not found so a caller cannot distinguish them.
func (s *ShareLinkService) resolve(ctx context.Context, token string, password *string) (*entity.ShareLink, error) {
	link, err := s.shareLinkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil || link.IsExpired(time.Now()) {
		return nil, apperror.NewNotFoundError("Share link")
	}

	if link.HasPassword() {
		if password == nil || *password == "" {
			return nil, apperror.NewAppError(401, "This share link requires a password")
		}
		if bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(*password)) != nil {
			return nil, apperror.NewAppError(401, "Incorrect share link password")
		}
	}
	return link, nil
}

// GetDocument resolves a token to its document and counts the view
func (s *ShareLinkService) GetDocument(ctx context.Context, token string, password *string) (*SharedDocument, error) {
	link, err := s.resolve(ctx, token, password)
	if err != nil {
		return nil, err
	}

	doc := &SharedDocument{Type: link.DocumentType}
	switch link.DocumentType {
	case entity.ShareDocumentQuotation:
		quotation, err := s.quotationRepo.GetWithItems(ctx, link.UserID, link.DocumentID)
		if err != nil {
			return nil, err
		}
		if quotation == nil {
			return nil, apperror.NewNotFoundError("Share link")
		}
		doc.Quotation = quotation
	case entity.ShareDocumentInvoice:
		invoice, err := s.invoiceRepo.GetWithDetails(ctx, link.UserID, link.DocumentID)
		if err != nil {
			return nil, err
		}
		if invoice == nil {
			return nil, apperror.NewNotFoundError("Share link")
		}
		doc.Invoice = invoice
	}

	if err := s.shareLinkRepo.IncrementViewCount(ctx, link.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

// RespondToQuotation lets the recipient accept or reject a shared
// quotation. Only quotation links qualify, and the underlying document's
// lifecycle rules still apply.
func (s *ShareLinkService) RespondToQuotation(ctx context.Context, token string, password *string, accept bool) (*entity.Quotation, error) {
	link, err := s.resolve(ctx, token, password)
	if err != nil {
		return nil, err
	}
	if link.DocumentType != entity.ShareDocumentQuotation {
		return nil, apperror.NewNotFoundError("Share link")
	}

	status := enum.QuotationStatusRejected
	if accept {
		status = enum.QuotationStatusAccepted
	}
	return s.quotationService.UpdateStatus(ctx, link.UserID, link.DocumentID, status)
}
