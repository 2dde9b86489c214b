// internal/models/brand.go
package models

import (
	"github.com/google/uuid"
)

type Brand struct {
	BaseModel
	OwnerID       uuid.UUID   `json:"owner_id" gorm:"type:uuid;uniqueIndex;not null"`
	Name          string      `json:"name" gorm:"size:255;not null"`
	Description   string      `json:"description" gorm:"type:text"`
	Website       string      `json:"website" gorm:"size:255"`
	WalletAddress *string     `json:"wallet_address" gorm:"size:42"`
	Status        BrandStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Verified      bool        `json:"verified" gorm:"default:false"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:BrandID"`
}

// CanMint reports whether the brand may mint certificates: it must be
// verified and have a wallet the minted token can be assigned to.
func (b *Brand) CanMint() bool {
	return b.Verified && b.WalletAddress != nil && *b.WalletAddress != ""
}
