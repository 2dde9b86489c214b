// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	BrandID     uuid.UUID     `json:"brand_id" gorm:"type:uuid;not null;index"`
	Name        string        `json:"name" gorm:"size:255;not null"`
	Description string        `json:"description" gorm:"type:text"`
	ProductCode string        `json:"product_code" gorm:"size:100;uniqueIndex;not null"`
	Images      StringSlice   `json:"images" gorm:"type:jsonb"`
	Status      ProductStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	// Relationships
	Brand            Brand             `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Identity         *ProductIdentity  `json:"identity,omitempty" gorm:"foreignKey:ProductID"`
	Certificate      *Certificate      `json:"certificate,omitempty" gorm:"foreignKey:ProductID"`
	OwnershipHistory []OwnershipRecord `json:"ownership_history,omitempty" gorm:"foreignKey:ProductID"`
	VerificationLogs []VerificationLog `json:"verification_logs,omitempty" gorm:"foreignKey:ProductID"`
}

// HashPreimage is the durable identifier the on-chain lookup key is derived
// from. It must never change for the life of the product.
func (p *Product) HashPreimage() string {
	return p.ID.String()
}

type ProductIdentity struct {
	BaseModel
	ProductID uuid.UUID    `json:"product_id" gorm:"type:uuid;uniqueIndex;not null"`
	Type      IdentityType `json:"type" gorm:"type:varchar(10);default:'qr'"`
	Value     string       `json:"value" gorm:"size:64;uniqueIndex;not null"`
}
