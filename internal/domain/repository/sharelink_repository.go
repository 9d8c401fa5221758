package repository

import (
	"context"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/google/uuid"
)

// ShareLinkRepository defines the interface for share link data operations
type ShareLinkRepository interface {
	Create(ctx context.Context, link *entity.ShareLink) error
	GetByToken(ctx context.Context, token string) (*entity.ShareLink, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.ShareLink, error)
	ListByDocument(ctx context.Context, userID, documentID uuid.UUID) ([]entity.ShareLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}
