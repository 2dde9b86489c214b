// internal/services/brand_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phygital-labs/veritas-backend/internal/apperrors"
	"github.com/phygital-labs/veritas-backend/internal/models"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

// BrandService manages the brand records that gate minting: an application
// starts unverified, an admin approves or rejects it, and only a verified
// brand with a wallet address can mint.
type BrandService struct {
	db *gorm.DB
}

type BrandApplicationRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=255"`
	Description   string  `json:"description"`
	Website       string  `json:"website" validate:"omitempty,url"`
	WalletAddress *string `json:"wallet_address" validate:"omitempty,eth_addr"`
}

func NewBrandService(db *gorm.DB) *BrandService {
	return &BrandService{db: db}
}

func (s *BrandService) Apply(ownerID uuid.UUID, req *BrandApplicationRequest) (*models.Brand, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Brand
	err := s.db.Where("owner_id = ?", ownerID).First(&existing).Error
	if err == nil {
		return nil, apperrors.ErrBrandExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	brand := &models.Brand{
		OwnerID:       ownerID,
		Name:          req.Name,
		Description:   req.Description,
		Website:       req.Website,
		WalletAddress: req.WalletAddress,
		Status:        models.BrandStatusPending,
		Verified:      false,
	}

	if err := s.db.Create(brand).Error; err != nil {
		return nil, fmt.Errorf("failed to create brand application: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"brand_id": brand.ID,
		"owner_id": ownerID,
	}).Info("Brand application submitted")

	return brand, nil
}

func (s *BrandService) GetByOwner(ownerID uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.Where("owner_id = ?", ownerID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBrandNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &brand, nil
}

// RequireVerifiedBrand resolves the caller's brand and enforces the
// verified gate shared by every brand-scoped operation.
func (s *BrandService) RequireVerifiedBrand(ownerID uuid.UUID) (*models.Brand, error) {
	brand, err := s.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if !brand.Verified {
		return nil, apperrors.ErrBrandNotVerified
	}
	return brand, nil
}

func (s *BrandService) PendingBrands(params utils.PaginationParams) ([]models.Brand, int64, error) {
	query := s.db.Model(&models.Brand{}).Where("status = ?", models.BrandStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count brand applications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name"})
	query = utils.ApplyPagination(query, params)

	var brands []models.Brand
	if err := query.Find(&brands).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch brand applications: %w", err)
	}

	return brands, total, nil
}

func (s *BrandService) Approve(brandID uuid.UUID) (*models.Brand, error) {
	return s.resolve(brandID, models.BrandStatusApproved, true)
}

func (s *BrandService) Reject(brandID uuid.UUID) (*models.Brand, error) {
	return s.resolve(brandID, models.BrandStatusRejected, false)
}

func (s *BrandService) resolve(brandID uuid.UUID, status models.BrandStatus, verified bool) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", brandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBrandNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if brand.Status != models.BrandStatusPending {
		return nil, apperrors.ErrBrandNotPending
	}

	updates := map[string]interface{}{
		"status":   status,
		"verified": verified,
	}
	if err := s.db.Model(&brand).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update brand application: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"brand_id": brand.ID,
		"status":   status,
	}).Info("Brand application resolved")

	return &brand, nil
}
