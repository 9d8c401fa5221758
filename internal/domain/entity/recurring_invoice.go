package entity

import (
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/pkg/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecurringInvoice is a template that periodically materializes real
// invoices. NextGenerationDate is null exactly while the template is
// stopped; generated invoices keep a backlink via Invoice.RecurringInvoiceID.
type RecurringInvoice struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID             `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID           uuid.UUID             `gorm:"type:uuid;not null;index" json:"client_id"`
	Frequency          recurrence.Frequency  `gorm:"size:20;not null" json:"frequency"`
	StartDate          time.Time             `gorm:"type:date;not null" json:"start_date"`
	EndDate            *time.Time            `gorm:"type:date" json:"end_date,omitempty"`
	DueDateDays        int                   `gorm:"not null;default:14" json:"due_date_days"`
	AutoBill           enum.AutoBillPolicy   `gorm:"size:20;not null;default:'disabled'" json:"auto_bill"`
	Status             enum.RecurringStatus  `gorm:"size:20;not null;default:'stopped'" json:"status"`
	NextGenerationDate *time.Time            `gorm:"type:date;index" json:"next_generation_date,omitempty"`
	LastGeneratedAt    *time.Time            `json:"last_generated_at,omitempty"`
	Currency           string                `gorm:"size:3;not null" json:"currency"`
	ExchangeRate       *decimal.Decimal      `gorm:"type:decimal(20,6)" json:"exchange_rate,omitempty"`
	Notes              *string               `gorm:"type:text" json:"notes,omitempty"`
	Terms              *string               `gorm:"type:text" json:"terms,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	DeletedAt          gorm.DeletedAt        `gorm:"index" json:"-"`

	// Relationships
	User   User                   `gorm:"foreignKey:UserID" json:"-"`
	Client *Client                `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []RecurringInvoiceItem `gorm:"foreignKey:RecurringInvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new recurring invoice
func (r *RecurringInvoice) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RecurringInvoice model
func (RecurringInvoice) TableName() string {
	return "recurring_invoices"
}

// RecurringInvoiceItem is a template line item. No computed totals are
// stored; amounts are computed when an invoice is materialized.
type RecurringInvoiceItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RecurringInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"recurring_invoice_id"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Description        *string         `gorm:"type:text" json:"description,omitempty"`
	Quantity           decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	DiscountPercent    decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	TaxPercent         decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_percent"`
	SortOrder          int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	RecurringInvoice RecurringInvoice `gorm:"foreignKey:RecurringInvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new recurring invoice item
func (ri *RecurringInvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RecurringInvoiceItem model
func (RecurringInvoiceItem) TableName() string {
	return "recurring_invoice_items"
}
