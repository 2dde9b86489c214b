// internal/services/transfer_service.go
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
	"github.com/phygital-labs/veritas-backend/internal/models"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

// TransferService moves a certificate's on-chain owner and appends to the
// local history. The claimed "from" wallet is always checked against the
// live on-chain owner before anything is submitted; the local history is
// never trusted for authorization.
type TransferService struct {
	db     *gorm.DB
	ledger Ledger
}

func NewTransferService(db *gorm.DB, ledger Ledger) *TransferService {
	return &TransferService{db: db, ledger: ledger}
}

// Claim hands the certificate from the brand wallet to its first customer.
func (s *TransferService) Claim(ctx context.Context, productID uuid.UUID, newOwnerWallet string) (string, error) {
	if !utils.IsWalletAddress(newOwnerWallet) {
		return "", apperrors.ErrInvalidAddress
	}

	product, err := s.loadMintedProduct(productID)
	if err != nil {
		return "", err
	}

	if product.Brand.WalletAddress == nil || *product.Brand.WalletAddress == "" {
		return "", apperrors.ErrNoWalletAddress
	}

	return s.executeTransfer(ctx, product, *product.Brand.WalletAddress, newOwnerWallet)
}

// Transfer moves the certificate between customer wallets.
func (s *TransferService) Transfer(ctx context.Context, productID uuid.UUID, fromWallet, toWallet string) (string, error) {
	if !utils.IsWalletAddress(fromWallet) || !utils.IsWalletAddress(toWallet) {
		return "", apperrors.ErrInvalidAddress
	}

	product, err := s.loadMintedProduct(productID)
	if err != nil {
		return "", err
	}

	return s.executeTransfer(ctx, product, fromWallet, toWallet)
}

func (s *TransferService) loadMintedProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Brand").Preload("Certificate").
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.Status == models.ProductStatusFlagged {
		return nil, apperrors.ErrProductFlagged
	}
	if product.Certificate == nil {
		return nil, apperrors.ErrNotMinted
	}

	return &product, nil
}

func (s *TransferService) executeTransfer(ctx context.Context, product *models.Product, fromWallet, toWallet string) (string, error) {
	// A transfer to the wallet that already owns the token is wasted gas.
	if utils.SameAddress(fromWallet, toWallet) {
		return "", apperrors.ErrSelfTransfer
	}

	productHash, err := chain.HashProductID(product.HashPreimage())
	if err != nil {
		return "", err
	}

	// Live owner check. Fails fast before any gas is spent.
	state, err := s.ledger.VerifyCertificate(ctx, productHash)
	if err != nil {
		return "", err
	}
	if !state.IsValid {
		return "", apperrors.ErrCertificateStale
	}
	if !utils.SameAddress(state.CurrentOwner.Hex(), fromWallet) {
		return "", apperrors.ErrNotCurrentOwner
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"token_id":   state.TokenID.String(),
		"from":       fromWallet,
		"to":         toWallet,
	}).Info("Submitting ownership transfer")

	txHash, err := s.ledger.TransferOwnership(ctx, state.TokenID,
		common.HexToAddress(fromWallet), common.HexToAddress(toWallet))
	if err != nil {
		return "", err
	}

	hashStr := txHash.Hex()
	record := &models.OwnershipRecord{
		ProductID:     product.ID,
		FromAddress:   &fromWallet,
		ToAddress:     toWallet,
		TxHash:        &hashStr,
		TransferredAt: time.Now(),
	}

	// History is append-only; prior records are never touched. Idempotent
	// for the same transfer, so one transparent retry is safe.
	if err := s.db.Create(record).Error; err != nil {
		logrus.WithError(err).WithField("tx_hash", hashStr).
			Warn("Ownership record write failed after successful transfer, retrying")
		if err := s.db.Create(record).Error; err != nil {
			return "", fmt.Errorf("transfer succeeded on-chain (tx %s) but history write failed: %w", hashStr, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"tx_hash":    hashStr,
	}).Info("Ownership transferred")

	return hashStr, nil
}
