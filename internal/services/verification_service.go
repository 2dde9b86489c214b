// internal/services/verification_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phygital-labs/veritas-backend/internal/apperrors"
	"github.com/phygital-labs/veritas-backend/internal/chain"
	"github.com/phygital-labs/veritas-backend/internal/models"
)

const (
	ReasonNotActive   = "not active"
	ReasonNotMinted   = "not yet minted"
	ReasonUnavailable = "verification unavailable"
	ReasonNotOnChain  = "certificate not found on chain"
	ReasonMismatch    = "token mismatch between registry and chain"
)

// VerificationService answers "is this product authentic" by reconciling
// the registry against a live chain read. It never writes to the chain and
// never mutates product state.
type VerificationService struct {
	db     *gorm.DB
	ledger Ledger
}

type VerificationResult struct {
	Product      *models.Product `json:"product"`
	Authentic    bool            `json:"authentic"`
	Reason       string          `json:"reason,omitempty"`
	TokenID      string          `json:"token_id,omitempty"`
	CurrentOwner string          `json:"current_owner,omitempty"`
	DBChainMatch bool            `json:"db_chain_match"`
	Retryable    bool            `json:"retryable,omitempty"`
}

func NewVerificationService(db *gorm.DB, ledger Ledger) *VerificationService {
	return &VerificationService{db: db, ledger: ledger}
}

// Verify resolves code as either a product id or a public identity value.
func (s *VerificationService) Verify(ctx context.Context, code, clientIP string) (*VerificationResult, error) {
	product, err := s.resolveProduct(code)
	if err != nil {
		return nil, err
	}

	// Flagged and draft products are answered from the registry alone;
	// the chain is never consulted for them.
	if product.Status != models.ProductStatusActive {
		return &VerificationResult{Product: product, Authentic: false, Reason: ReasonNotActive}, nil
	}

	if product.Certificate == nil {
		return &VerificationResult{Product: product, Authentic: false, Reason: ReasonNotMinted}, nil
	}

	productHash, err := chain.HashProductID(product.HashPreimage())
	if err != nil {
		return nil, err
	}

	state, err := s.ledger.VerifyCertificate(ctx, productHash)
	if err != nil {
		// An unreachable node is not a fake product.
		logrus.WithError(err).WithField("product_id", product.ID).
			Warn("Chain read failed during verification")
		return &VerificationResult{
			Product:   product,
			Authentic: false,
			Reason:    ReasonUnavailable,
			Retryable: true,
		}, nil
	}

	result := &VerificationResult{
		Product:      product,
		TokenID:      state.TokenID.String(),
		CurrentOwner: state.CurrentOwner.Hex(),
		DBChainMatch: state.TokenID.String() == product.Certificate.TokenID,
	}

	// On-chain validity alone would pass for another product's token;
	// the registry alone would pass for a mint that never happened.
	// Both have to agree.
	switch {
	case !state.IsValid:
		result.Reason = ReasonNotOnChain
	case !result.DBChainMatch:
		result.Reason = ReasonMismatch
	default:
		result.Authentic = true
	}

	if result.Authentic {
		s.recordVerification(product.ID, clientIP)
	}

	return result, nil
}

// OwnershipHistory returns the append-only transfer history, newest first.
func (s *VerificationService) OwnershipHistory(productID uuid.UUID) ([]models.OwnershipRecord, error) {
	if err := s.productExists(productID); err != nil {
		return nil, err
	}

	var records []models.OwnershipRecord
	err := s.db.Where("product_id = ?", productID).
		Order("transferred_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ownership history: %w", err)
	}

	return records, nil
}

// VerificationLogs lists verification events for a brand's own product.
func (s *VerificationService) VerificationLogs(productID, brandID uuid.UUID) ([]models.VerificationLog, error) {
	var product models.Product
	err := s.db.Select("id").Where("id = ? AND brand_id = ?", productID, brandID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var logs []models.VerificationLog
	err = s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verification logs: %w", err)
	}

	return logs, nil
}

func (s *VerificationService) resolveProduct(code string) (*models.Product, error) {
	if id, err := uuid.Parse(code); err == nil {
		product, err := s.loadProduct(id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, apperrors.ErrProductNotFound) {
			return nil, err
		}
	}

	// Public QR payloads carry the identity value, not the product id.
	var identity models.ProductIdentity
	if err := s.db.Where("value = ?", code).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.loadProduct(identity.ProductID)
}

// loadProduct builds its query from scratch on every call. Reusing a gorm
// chain across lookups would carry the first WHERE clause into the second.
func (s *VerificationService) loadProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Brand").Preload("Certificate").
		Preload("OwnershipHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("transferred_at DESC")
		}).
		Where("products.id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *VerificationService) productExists(productID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// recordVerification appends the audit entry for a successful check. Best
// effort: a failed write is logged and never surfaces to the caller.
func (s *VerificationService) recordVerification(productID uuid.UUID, clientIP string) {
	log := &models.VerificationLog{
		ProductID: productID,
		ClientIP:  clientIP,
	}
	if err := s.db.Create(log).Error; err != nil {
		logrus.WithError(err).WithField("product_id", productID).
			Error("Failed to write verification log")
	}
}
