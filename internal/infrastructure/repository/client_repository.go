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

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return dbFrom(ctx, r.db).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := dbFrom(ctx, r.db).
		Scopes(userScope(userID)).
		First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, userID uuid.UUID, email string) (*entity.Client, error) {
	var client entity.Client
	err := dbFrom(ctx, r.db).
		Where("user_id = ? AND email = ?", userID, email).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return dbFrom(ctx, r.db).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Client{}, "id = ?", id).Error
}

func (r *clientRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Client{}).Scopes(userScope(userID))

	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR company ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&clients).Error

	return clients, total, err
}

func (r *clientRepository) Exists(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Client{}).
		Scopes(userScope(userID)).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *clientRepository) HasDocuments(ctx context.Context, id uuid.UUID) (bool, error) {
	db := dbFrom(ctx, r.db)

	var invoices int64
	if err := db.Model(&entity.Invoice{}).Where("client_id = ?", id).Count(&invoices).Error; err != nil {
		return false, err
	}
	if invoices > 0 {
		return true, nil
	}

	var quotations int64
	if err := db.Model(&entity.Quotation{}).Where("client_id = ?", id).Count(&quotations).Error; err != nil {
		return false, err
	}
	return quotations > 0, nil
}
