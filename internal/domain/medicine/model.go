package medicine

import (
	"time"

	"github.com/google/uuid"
)

// Medicine categories.
const (
	CategoryTablet    = "tablet"
	CategoryCapsule   = "capsule"
	CategorySyrup     = "syrup"
	CategoryDrops     = "drops"
	CategoryInjection = "injection"
	CategoryOther     = "other"
)

var validCategories = map[string]bool{
	CategoryTablet:    true,
	CategoryCapsule:   true,
	CategorySyrup:     true,
	CategoryDrops:     true,
	CategoryInjection: true,
	CategoryOther:     true,
}

// Medicine maps to the medicines table.
type Medicine struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Manufacturer string     `db:"manufacturer" json:"manufacturer"`
	Description  string     `db:"description" json:"description"`
	Price        float64    `db:"price" json:"price"`
	Stock        int        `db:"stock" json:"stock"`
	ExpiryDate   *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	Category     string     `db:"category" json:"category"`
	CreatedBy    *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Update is a partial catalog update; nil fields are left untouched.
type Update struct {
	Name         *string    `json:"name,omitempty"`
	Manufacturer *string    `json:"manufacturer,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	Stock        *int       `json:"stock,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Category     *string    `json:"category,omitempty"`
}

func (u *Update) IsEmpty() bool {
	return u.Name == nil && u.Manufacturer == nil && u.Description == nil &&
		u.Price == nil && u.Stock == nil && u.ExpiryDate == nil && u.Category == nil
}

// Filter narrows catalog listings.
type Filter struct {
	Search   string
	Category string
}
