package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
)

type shareLinkRepository struct {
	db *gorm.DB
}

// NewShareLinkRepository creates a new share link repository
func NewShareLinkRepository(db *gorm.DB) domainRepo.ShareLinkRepository {
	return &shareLinkRepository{db: db}
}

func (r *shareLinkRepository) Create(ctx context.Context, link *entity.ShareLink) error {
	return dbFrom(ctx, r.db).Create(link).Error
}

func (r *shareLinkRepository) GetByToken(ctx context.Context, token string) (*entity.ShareLink, error) {
	var link entity.ShareLink
	err := dbFrom(ctx, r.db).
		First(&link, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *shareLinkRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.ShareLink, error) {
	var link entity.ShareLink
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		First(&link, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *shareLinkRepository) ListByDocument(ctx context.Context, userID, documentID uuid.UUID) ([]entity.ShareLink, error) {
	var links []entity.ShareLink
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&links).Error
	return links, err
}

func (r *shareLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.ShareLink{}, "id = ?", id).Error
}

func (r *shareLinkRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Model(&entity.ShareLink{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
