// internal/services/mint_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phygital-labs/veritas-backend/internal/apperrors"
	"github.com/phygital-labs/veritas-backend/internal/chain"
	"github.com/phygital-labs/veritas-backend/internal/database"
	"github.com/phygital-labs/veritas-backend/internal/models"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

// MintService coordinates "no certificate yet" -> on-chain mint -> durable
// certificate row, in that order. The chain write always happens before the
// local write: a crash in between leaves an on-chain certificate that can
// be found again by hash, never a local row pointing at a mint that did not
// happen.
type MintService struct {
	db     *gorm.DB
	ledger Ledger
}

type MintOutcome struct {
	TokenID     string              `json:"token_id"`
	TxHash      string              `json:"tx_hash"`
	Certificate *models.Certificate `json:"certificate"`
}

func NewMintService(db *gorm.DB, ledger Ledger) *MintService {
	return &MintService{db: db, ledger: ledger}
}

func (s *MintService) Mint(ctx context.Context, productID, brandID uuid.UUID) (*MintOutcome, error) {
	var product models.Product
	err := s.db.Preload("Brand").Preload("Certificate").
		Where("id = ? AND brand_id = ?", productID, brandID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Everything below is checked before any chain interaction.
	if product.Certificate != nil {
		return nil, apperrors.ErrAlreadyMinted
	}
	if product.Status != models.ProductStatusActive {
		return nil, apperrors.ErrProductNotActive
	}
	if !product.Brand.Verified {
		return nil, apperrors.ErrBrandNotVerified
	}
	if product.Brand.WalletAddress == nil || *product.Brand.WalletAddress == "" {
		return nil, apperrors.ErrNoWalletAddress
	}
	if !utils.IsWalletAddress(*product.Brand.WalletAddress) {
		return nil, apperrors.ErrInvalidAddress
	}

	productHash, err := chain.HashProductID(product.HashPreimage())
	if err != nil {
		return nil, err
	}

	brandWallet := common.HexToAddress(*product.Brand.WalletAddress)

	logrus.WithFields(logrus.Fields{
		"product_id":   productID,
		"product_hash": productHash.Hex(),
		"brand_wallet": brandWallet.Hex(),
	}).Info("Submitting mint transaction")

	result, err := s.ledger.MintCertificate(ctx, brandWallet, productHash)
	if err != nil {
		// EventNotFoundError included: the transaction is mined and
		// irreversible, nothing is rolled back, the error goes up as-is.
		return nil, err
	}

	certificate := &models.Certificate{
		ProductID:       product.ID,
		ContractAddress: s.ledger.ContractAddress().Hex(),
		TokenID:         result.TokenID.String(),
		Chain:           s.ledger.Network(),
		MintedAt:        time.Now(),
	}
	txHash := result.TxHash.Hex()

	persist := func() error {
		return database.WithTransaction(s.db, func(tx *gorm.DB) error {
			if err := tx.Create(certificate).Error; err != nil {
				return err
			}
			record := &models.OwnershipRecord{
				ProductID:     product.ID,
				FromAddress:   nil,
				ToAddress:     *product.Brand.WalletAddress,
				TxHash:        &txHash,
				TransferredAt: time.Now(),
			}
			return tx.Create(record).Error
		})
	}

	// The local write is idempotent given the unique constraint on
	// product_id, so one transparent retry is safe.
	if err := persist(); err != nil {
		logrus.WithError(err).WithField("tx_hash", txHash).
			Warn("Certificate write failed after successful mint, retrying")
		if err := persist(); err != nil {
			return nil, fmt.Errorf("mint succeeded on-chain (tx %s) but certificate write failed: %w", txHash, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"token_id":   certificate.TokenID,
		"tx_hash":    txHash,
	}).Info("Certificate minted")

	return &MintOutcome{
		TokenID:     certificate.TokenID,
		TxHash:      txHash,
		Certificate: certificate,
	}, nil
}

// Reconcile rebuilds the local certificate from chain state. A crash between
// a mined mint and the local write leaves a valid on-chain certificate with
// no registry row; the chain is authoritative, so the row is re-derived from
// a read by product hash. Idempotent: an already-consistent product is
// returned unchanged.
func (s *MintService) Reconcile(ctx context.Context, productID uuid.UUID) (*MintOutcome, error) {
	var product models.Product
	err := s.db.Preload("Certificate").Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.Certificate != nil {
		return &MintOutcome{
			TokenID:     product.Certificate.TokenID,
			Certificate: product.Certificate,
		}, nil
	}

	productHash, err := chain.HashProductID(product.HashPreimage())
	if err != nil {
		return nil, err
	}

	state, err := s.ledger.VerifyCertificate(ctx, productHash)
	if err != nil {
		return nil, err
	}
	if !state.IsValid {
		// Nothing on chain either; there is nothing to repair.
		return nil, apperrors.ErrNotMinted
	}

	certificate := &models.Certificate{
		ProductID:       product.ID,
		ContractAddress: s.ledger.ContractAddress().Hex(),
		TokenID:         state.TokenID.String(),
		Chain:           s.ledger.Network(),
		MintedAt:        time.Now(),
	}
	owner := state.CurrentOwner.Hex()

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(certificate).Error; err != nil {
			return err
		}
		// The original transaction hash is unrecoverable from a state read.
		record := &models.OwnershipRecord{
			ProductID:     product.ID,
			FromAddress:   nil,
			ToAddress:     owner,
			TransferredAt: time.Now(),
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to repair certificate record: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"token_id":   certificate.TokenID,
	}).Warn("Certificate record rebuilt from chain state")

	return &MintOutcome{
		TokenID:     certificate.TokenID,
		Certificate: certificate,
	}, nil
}
