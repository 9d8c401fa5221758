package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
)

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	return dbFrom(ctx, r.db).Create(quotation).Error
}

// userScope filters by owner unless userID is Nil (super-admin sees all)
func userScope(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == uuid.Nil {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}

func (r *quotationRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) GetWithItems(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) Update(ctx context.Context, quotation *entity.Quotation) error {
	return dbFrom(ctx, r.db).Save(quotation).Error
}

func (r *quotationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) error {
	return dbFrom(ctx, r.db).Model(&entity.Quotation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *quotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Quotation{}, "id = ?", id).Error
}

func (r *quotationRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var quotations []entity.Quotation
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Quotation{}).Scopes(userScope(userID))

	if params.Search != "" {
		query = query.
			Joins("LEFT JOIN clients ON clients.id = quotations.client_id").
			Where("quotations.number ILIKE ? OR clients.name ILIKE ?",
				"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("quotations.status = ?", *params.Status)
	}

	if params.ClientID != nil {
		query = query.Where("quotations.client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	switch params.SortBy {
	case "number", "issue_date", "expiry_date", "total_amount", "status":
		sortBy = params.SortBy
	}
	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").
		Order("quotations." + sortBy + " " + sortOrder).
		Find(&quotations).Error

	return quotations, total, err
}

func (r *quotationRepository) LastNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error) {
	var quotation entity.Quotation
	// Length-first ordering keeps e.g. QUO-2024-1000 above QUO-2024-999.
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND number LIKE ?", userID, prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		First(&quotation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return quotation.Number, nil
}

func (r *quotationRepository) CountForeignCurrency(ctx context.Context, userID uuid.UUID, baseCurrency string) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Quotation{}).
		Where("user_id = ? AND currency <> ?", userID, baseCurrency).
		Count(&count).Error
	return count, err
}

type quotationItemRepository struct {
	db *gorm.DB
}

// NewQuotationItemRepository creates a new quotation item repository
func NewQuotationItemRepository(db *gorm.DB) domainRepo.QuotationItemRepository {
	return &quotationItemRepository{db: db}
}

func (r *quotationItemRepository) CreateBatch(ctx context.Context, items []entity.QuotationItem) error {
	if len(items) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&items).Error
}

func (r *quotationItemRepository) GetByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]entity.QuotationItem, error) {
	var items []entity.QuotationItem
	err := dbFrom(ctx, r.db).
		Where("quotation_id = ?", quotationID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

func (r *quotationItemRepository) DeleteByQuotationID(ctx context.Context, quotationID uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.QuotationItem{}, "quotation_id = ?", quotationID).Error
}
