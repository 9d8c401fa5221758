package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a tenant in the system. Every document, payment and
// template is owned by exactly one user; queries are always scoped by it.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	FirstName       string         `gorm:"size:255;not null" json:"first_name"`
	LastName        string         `gorm:"size:255;not null" json:"last_name"`
	Email           string         `gorm:"size:255;unique;not null" json:"email"`
	Password        string         `gorm:"size:255" json:"-"`
	Provider        string         `gorm:"size:50;default:'local'" json:"provider"`
	ProviderID      *string        `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:50;default:'user'" json:"role"`
	BusinessName    *string        `gorm:"size:255" json:"business_name,omitempty"`
	BusinessAddress *string        `gorm:"type:text" json:"business_address,omitempty"`
	BusinessPhone   *string        `gorm:"size:50" json:"business_phone,omitempty"`
	BusinessEmail   *string        `gorm:"size:255" json:"business_email,omitempty"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clients           []Client           `gorm:"foreignKey:UserID" json:"-"`
	Invoices          []Invoice          `gorm:"foreignKey:UserID" json:"-"`
	Quotations        []Quotation        `gorm:"foreignKey:UserID" json:"-"`
	RecurringInvoices []RecurringInvoice `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsSuperAdmin reports whether the user carries the super-admin role
func (u *User) IsSuperAdmin() bool {
	return u.Role == "super-admin"
}
