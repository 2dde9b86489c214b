// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// StringSlice is a JSON-encoded string list, portable across drivers.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Enums
type Role string

const (
	RoleUser  Role = "user"
	RoleBrand Role = "brand"
	RoleAdmin Role = "admin"
)

type ProductStatus string

const (
	ProductStatusDraft   ProductStatus = "draft"
	ProductStatusActive  ProductStatus = "active"
	ProductStatusFlagged ProductStatus = "flagged"
)

type BrandStatus string

const (
	BrandStatusPending  BrandStatus = "pending"
	BrandStatusApproved BrandStatus = "approved"
	BrandStatusRejected BrandStatus = "rejected"
)

type IdentityType string

const (
	IdentityTypeQR IdentityType = "qr"
)
