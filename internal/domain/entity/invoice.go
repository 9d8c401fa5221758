package entity

import (
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents a billable invoice for a client. AmountPaid, BalanceDue,
// Status and PaidAt are derived from the payment set and are only mutated by
// the payment ledger inside one transaction with the payment rows themselves.
type Invoice struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	RecurringInvoiceID *uuid.UUID         `gorm:"type:uuid;index" json:"recurring_invoice_id,omitempty"`
	Number             string             `gorm:"size:100;not null;uniqueIndex:idx_invoices_user_number,composite:user_id" json:"number"`
	IssueDate          time.Time          `gorm:"type:date;not null" json:"issue_date"`
	DueDate            time.Time          `gorm:"type:date;not null" json:"due_date"`
	Status             enum.InvoiceStatus `gorm:"default:0" json:"status"`
	Currency           string             `gorm:"size:3;not null" json:"currency"`
	ExchangeRate       *decimal.Decimal   `gorm:"type:decimal(20,6)" json:"exchange_rate,omitempty"`
	Subtotal           decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	DiscountTotal      decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"discount_total"`
	TaxTotal           decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"tax_total"`
	TotalAmount        decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	AmountPaid         decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	BalanceDue         decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"balance_due"`
	PaidAt             *time.Time         `json:"paid_at,omitempty"`
	Notes              *string            `gorm:"type:text" json:"notes,omitempty"`
	Terms              *string            `gorm:"type:text" json:"terms,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User     User          `gorm:"foreignKey:UserID" json:"-"`
	Client   *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents a line item in an invoice
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
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
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
