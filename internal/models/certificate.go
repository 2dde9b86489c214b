// internal/models/certificate.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate records a successful on-chain mint. Token id and contract
// address are immutable once written; the row exists only after the mint
// transaction has been mined.
type Certificate struct {
	BaseModel
	ProductID       uuid.UUID `json:"product_id" gorm:"type:uuid;uniqueIndex;not null"`
	ContractAddress string    `json:"contract_address" gorm:"size:42;not null"`
	TokenID         string    `json:"token_id" gorm:"size:78;not null"`
	Chain           string    `json:"chain" gorm:"size:32;not null"`
	MintedAt        time.Time `json:"minted_at"`
}

// OwnershipRecord is an append-only history entry. FromAddress is nil only
// for the initial mint entry; the most recent ToAddress is the off-chain
// belief of the current owner and is always cross-checked on-chain.
type OwnershipRecord struct {
	BaseModel
	ProductID     uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	FromAddress   *string   `json:"from_address" gorm:"size:42"`
	ToAddress     string    `json:"to_address" gorm:"size:42;not null"`
	TxHash        *string   `json:"tx_hash" gorm:"size:66"`
	TransferredAt time.Time `json:"transferred_at" gorm:"index"`
}

type VerificationLog struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ClientIP  string    `json:"client_ip" gorm:"size:45"`
}
