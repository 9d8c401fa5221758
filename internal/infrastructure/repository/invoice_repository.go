package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return dbFrom(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByIDForUpdate(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(userScope(userID)).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetWithDetails(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, created_at ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return dbFrom(ctx, r.db).Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Invoice{}).Scopes(userScope(userID))

	if params.Search != "" {
		query = query.
			Joins("LEFT JOIN clients ON clients.id = invoices.client_id").
			Where("invoices.number ILIKE ? OR clients.name ILIKE ?",
				"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("invoices.status = ?", *params.Status)
	}

	if params.ClientID != nil {
		query = query.Where("invoices.client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	switch params.SortBy {
	case "number", "issue_date", "due_date", "total_amount", "balance_due", "status":
		sortBy = params.SortBy
	}
	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").
		Order("invoices." + sortBy + " " + sortOrder).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) LastNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error) {
	var invoice entity.Invoice
	// Length-first ordering keeps e.g. INV-10000 above INV-9999.
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND number LIKE ?", userID, prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return invoice.Number, nil
}

func (r *invoiceRepository) CountForeignCurrency(ctx context.Context, userID uuid.UUID, baseCurrency string) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Invoice{}).
		Where("user_id = ? AND currency <> ?", userID, baseCurrency).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepository) Summary(ctx context.Context, userID uuid.UUID, monthStart time.Time) (*domainRepo.InvoiceSummary, error) {
	db := dbFrom(ctx, r.db)
	summary := &domainRepo.InvoiceSummary{
		OutstandingTotal: decimal.Zero,
		OverdueTotal:     decimal.Zero,
		PaidThisMonth:    decimal.Zero,
		CountByStatus:    make(map[enum.InvoiceStatus]int64),
	}

	type totalRow struct {
		Total decimal.Decimal
	}

	var outstanding totalRow
	err := db.Model(&entity.Invoice{}).
		Scopes(userScope(userID)).
		Where("status IN ?", []enum.InvoiceStatus{
			enum.InvoiceStatusSent, enum.InvoiceStatusPartial, enum.InvoiceStatusOverdue,
		}).
		Select("COALESCE(SUM(balance_due), 0) AS total").
		Scan(&outstanding).Error
	if err != nil {
		return nil, err
	}
	summary.OutstandingTotal = outstanding.Total

	var overdue totalRow
	err = db.Model(&entity.Invoice{}).
		Scopes(userScope(userID)).
		Where("status = ?", enum.InvoiceStatusOverdue).
		Select("COALESCE(SUM(balance_due), 0) AS total").
		Scan(&overdue).Error
	if err != nil {
		return nil, err
	}
	summary.OverdueTotal = overdue.Total

	var paid totalRow
	err = db.Model(&entity.Payment{}).
		Scopes(userScope(userID)).
		Where("payment_date >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&paid).Error
	if err != nil {
		return nil, err
	}
	summary.PaidThisMonth = paid.Total

	type statusRow struct {
		Status enum.InvoiceStatus
		Count  int64
	}
	var rows []statusRow
	err = db.Model(&entity.Invoice{}).
		Scopes(userScope(userID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		summary.CountByStatus[row.Status] = row.Count
		if row.Status == enum.InvoiceStatusOverdue {
			summary.OverdueCount = row.Count
		}
	}

	return summary, nil
}

type invoiceItemRepository struct {
	db *gorm.DB
}

// NewInvoiceItemRepository creates a new invoice item repository
func NewInvoiceItemRepository(db *gorm.DB) domainRepo.InvoiceItemRepository {
	return &invoiceItemRepository{db: db}
}

func (r *invoiceItemRepository) CreateBatch(ctx context.Context, items []entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&items).Error
}

func (r *invoiceItemRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error) {
	var items []entity.InvoiceItem
	err := dbFrom(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

func (r *invoiceItemRepository) DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.InvoiceItem{}, "invoice_id = ?", invoiceID).Error
}
