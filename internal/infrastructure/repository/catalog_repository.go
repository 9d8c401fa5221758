package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	return dbFrom(ctx, r.db).Create(item).Error
}

func (r *catalogRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) Update(ctx context.Context, item *entity.CatalogItem) error {
	return dbFrom(ctx, r.db).Save(item).Error
}

func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.CatalogItem{}, "id = ?", id).Error
}

func (r *catalogRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.CatalogItem, int64, error) {
	var items []entity.CatalogItem
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.CatalogItem{}).Scopes(userScope(userID))

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}
