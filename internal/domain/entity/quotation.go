package entity

import (
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quotation represents a price quotation for a client. Totals are derived
// from the item set and written together with it; the number is assigned at
// creation and never changes.
type Quotation struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"client_id"`
	Number        string               `gorm:"size:100;not null;uniqueIndex:idx_quotations_user_number,composite:user_id" json:"number"`
	IssueDate     time.Time            `gorm:"type:date;not null" json:"issue_date"`
	ExpiryDate    time.Time            `gorm:"type:date;not null" json:"expiry_date"`
	Status        enum.QuotationStatus `gorm:"default:0" json:"status"`
	Currency      string               `gorm:"size:3;not null" json:"currency"`
	ExchangeRate  *decimal.Decimal     `gorm:"type:decimal(20,6)" json:"exchange_rate,omitempty"`
	Subtotal      decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	DiscountTotal decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"discount_total"`
	TaxTotal      decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"tax_total"`
	TotalAmount   decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	Notes         *string              `gorm:"type:text" json:"notes,omitempty"`
	Terms         *string              `gorm:"type:text" json:"terms,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	User   User            `gorm:"foreignKey:UserID" json:"-"`
	Client *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// QuotationItem represents a line item in a quotation
type QuotationItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_percent"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	SortOrder       int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Quotation Quotation `gorm:"foreignKey:QuotationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new quotation item
func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationItem model
func (QuotationItem) TableName() string {
	return "quotation_items"
}
