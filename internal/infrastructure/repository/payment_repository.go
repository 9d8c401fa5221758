package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return dbFrom(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	return dbFrom(ctx, r.db).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Payment{}, "id = ?", id).Error
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := dbFrom(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	query := dbFrom(ctx, r.db).Model(&entity.Payment{}).
		Where("invoice_id = ?", invoiceID)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var row struct {
		Total decimal.Decimal
	}
	err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *paymentRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Payment{}, "invoice_id = ?", invoiceID).Error
}
