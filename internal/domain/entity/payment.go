package entity

import (
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment represents a payment recorded against an invoice. The currency
// always matches the parent invoice; the sum of a invoice's payments never
// exceeds its total amount.
type Payment struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount          decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate     time.Time           `gorm:"type:date;not null" json:"payment_date"`
	Method          *enum.PaymentMethod `gorm:"size:50" json:"method,omitempty"`
	Currency        string              `gorm:"size:3;not null" json:"currency"`
	ReferenceNumber *string             `gorm:"size:100" json:"reference_number,omitempty"`
	Notes           *string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
