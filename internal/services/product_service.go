// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phygital-labs/veritas-backend/internal/apperrors"
	"github.com/phygital-labs/veritas-backend/internal/models"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

// ProductService owns the product lifecycle: DRAFT on creation, a single
// transition to ACTIVE that issues the identity, and flag-or-delete at the
// end of life. Minting and transfers live in their own orchestrators.
type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=255"`
	Description string   `json:"description"`
	ProductCode string   `json:"product_code" validate:"required,product_code"`
	Images      []string `json:"images,omitempty"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(brandID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		BrandID:     brandID,
		Name:        req.Name,
		Description: req.Description,
		ProductCode: req.ProductCode,
		Images:      models.StringSlice(req.Images),
		Status:      models.ProductStatusDraft,
	}

	if err := s.db.Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) GetProduct(id, brandID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Identity").Preload("Certificate").
		Where("id = ? AND brand_id = ?", id, brandID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) ListProducts(brandID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Where("brand_id = ?", brandID).
		Preload("Identity").Preload("Certificate")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(product_code) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) UpdateProduct(id, brandID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(id, brandID)
	if err != nil {
		return nil, err
	}

	if product.Status == models.ProductStatusFlagged {
		return nil, apperrors.ErrProductFlagged
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Images != nil {
		updates["images"] = models.StringSlice(req.Images)
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return product, nil
}

// Activate moves a DRAFT product to ACTIVE and creates its identity in the
// same local transaction. Safe to call twice: the second call fails without
// ever producing a duplicate identity.
func (s *ProductService) Activate(id, brandID uuid.UUID) (*models.ProductIdentity, error) {
	var identity *models.ProductIdentity

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Preload("Identity").
			Where("id = ? AND brand_id = ?", id, brandID).
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if product.Status != models.ProductStatusDraft {
			return apperrors.ErrAlreadyActive
		}
		if product.Identity != nil {
			return apperrors.ErrIdentityConflict
		}

		if err := tx.Model(&product).Update("status", models.ProductStatusActive).Error; err != nil {
			return fmt.Errorf("failed to activate product: %w", err)
		}

		// The identity value is a random token, never derived from the
		// product id, so verification URLs cannot be guessed.
		identity = &models.ProductIdentity{
			ProductID: product.ID,
			Type:      models.IdentityTypeQR,
			Value:     uuid.NewString(),
		}
		if err := tx.Create(identity).Error; err != nil {
			return fmt.Errorf("failed to create identity: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product_id": id,
		"identity":   identity.Value,
	}).Info("Product activated")

	return identity, nil
}

// FlagOrDelete is the single delete entry point. ACTIVE or certified
// products are soft-deleted by flagging; a DRAFT product with no
// certificate is removed outright along with every dependent row.
func (s *ProductService) FlagOrDelete(id, brandID uuid.UUID) (string, error) {
	var product models.Product
	err := s.db.Preload("Identity").Preload("Certificate").
		Where("id = ? AND brand_id = ?", id, brandID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrProductNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	if product.Status == models.ProductStatusActive || product.Certificate != nil {
		if err := s.db.Model(&product).Update("status", models.ProductStatusFlagged).Error; err != nil {
			return "", fmt.Errorf("failed to flag product: %w", err)
		}
		logrus.WithField("product_id", id).Info("Product flagged")
		return "flagged", nil
	}

	if product.Status == models.ProductStatusFlagged {
		return "", apperrors.ErrProductFlagged
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Children first, product row last.
		if err := tx.Unscoped().Where("product_id = ?", product.ID).Delete(&models.ProductIdentity{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("product_id = ?", product.ID).Delete(&models.VerificationLog{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("product_id = ?", product.ID).Delete(&models.OwnershipRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("product_id = ?", product.ID).Delete(&models.Certificate{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&product).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to delete product: %w", err)
	}

	logrus.WithField("product_id", id).Info("Product deleted")
	return "deleted", nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// Fallback for drivers without structured codes.
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
