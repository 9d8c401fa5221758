package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
)

type recurringRepository struct {
	db *gorm.DB
}

// NewRecurringInvoiceRepository creates a new recurring invoice repository
func NewRecurringInvoiceRepository(db *gorm.DB) domainRepo.RecurringInvoiceRepository {
	return &recurringRepository{db: db}
}

func (r *recurringRepository) Create(ctx context.Context, rec *entity.RecurringInvoice) error {
	return dbFrom(ctx, r.db).Create(rec).Error
}

func (r *recurringRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	var rec entity.RecurringInvoice
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recurringRepository) GetWithItems(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	var rec entity.RecurringInvoice
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recurringRepository) Update(ctx context.Context, rec *entity.RecurringInvoice) error {
	return dbFrom(ctx, r.db).Save(rec).Error
}

func (r *recurringRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.RecurringInvoice{}, "id = ?", id).Error
}

func (r *recurringRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.RecurringFilterParams) ([]entity.RecurringInvoice, int64, error) {
	var recs []entity.RecurringInvoice
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.RecurringInvoice{}).Scopes(userScope(userID))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").
		Order("created_at DESC").
		Find(&recs).Error

	return recs, total, err
}

func (r *recurringRepository) ListDue(ctx context.Context, date time.Time) ([]entity.RecurringInvoice, error) {
	var recs []entity.RecurringInvoice
	err := dbFrom(ctx, r.db).
		Where("status = ?", enum.RecurringStatusActive).
		Where("next_generation_date IS NOT NULL AND next_generation_date <= ?", date).
		Where("end_date IS NULL OR end_date >= ?", date).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("next_generation_date ASC").
		Find(&recs).Error
	return recs, err
}

type recurringItemRepository struct {
	db *gorm.DB
}

// NewRecurringInvoiceItemRepository creates a new recurring invoice item repository
func NewRecurringInvoiceItemRepository(db *gorm.DB) domainRepo.RecurringInvoiceItemRepository {
	return &recurringItemRepository{db: db}
}

func (r *recurringItemRepository) CreateBatch(ctx context.Context, items []entity.RecurringInvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&items).Error
}

func (r *recurringItemRepository) GetByRecurringInvoiceID(ctx context.Context, recurringInvoiceID uuid.UUID) ([]entity.RecurringInvoiceItem, error) {
	var items []entity.RecurringInvoiceItem
	err := dbFrom(ctx, r.db).
		Where("recurring_invoice_id = ?", recurringInvoiceID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

func (r *recurringItemRepository) DeleteByRecurringInvoiceID(ctx context.Context, recurringInvoiceID uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.RecurringInvoiceItem{}, "recurring_invoice_id = ?", recurringInvoiceID).Error
}
