package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserSettings holds per-tenant billing defaults. BaseCurrency anchors the
// exchange-rate rule for every document the tenant creates.
type UserSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Currency settings
	BaseCurrency    string `gorm:"size:3;default:'USD'" json:"base_currency"`
	DefaultCurrency string `gorm:"size:3;default:'USD'" json:"default_currency"`

	// Document numbering
	InvoicePrefix   string `gorm:"size:20;default:'INV-'" json:"invoice_prefix"`
	QuotationPrefix string `gorm:"size:20;default:'QUO-'" json:"quotation_prefix"`

	// Billing defaults
	DefaultTaxName    *string         `gorm:"size:100" json:"default_tax_name,omitempty"`
	DefaultTaxPercent *decimal.Decimal `gorm:"type:decimal(5,2)" json:"default_tax_percent,omitempty"`
	DefaultDueDays    int             `gorm:"default:14" json:"default_due_days"`
	DefaultNotes      *string         `gorm:"type:text" json:"default_notes,omitempty"`
	DefaultTerms      *string         `gorm:"type:text" json:"default_terms,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}
