package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareDocumentType identifies which document kind a share link exposes
type ShareDocumentType string

const (
	ShareDocumentQuotation ShareDocumentType = "quotation"
	ShareDocumentInvoice   ShareDocumentType = "invoice"
)

// ShareLink is a token-addressable, read-only grant to one document,
// optionally password protected and optionally expiring at end of day.
type ShareLink struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token        string            `gorm:"size:64;not null;uniqueIndex" json:"token"`
	DocumentType ShareDocumentType `gorm:"size:20;not null" json:"document_type"`
	DocumentID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"document_id"`
	PasswordHash *string           `gorm:"size:255" json:"-"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
	ViewCount    int               `gorm:"default:0" json:"view_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new share link
func (s *ShareLink) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ShareLink model
func (ShareLink) TableName() string {
	return "share_links"
}

// HasPassword reports whether the link requires a password
func (s *ShareLink) HasPassword() bool {
	return s.PasswordHash != nil && *s.PasswordHash != ""
}

// IsExpired checks the link against its expiry, if one is set
func (s *ShareLink) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
