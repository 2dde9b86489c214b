// internal/handlers/brand.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phygital-labs/veritas-backend/internal/services"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

type BrandHandler struct {
	brandService *services.BrandService
}

func NewBrandHandler(brandService *services.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// POST /brands/apply
func (h *BrandHandler) Apply(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	var req services.BrandApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	brand, err := h.brandService.Apply(ownerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"brand": brand})
}

// GET /brands/me
func (h *BrandHandler) Me(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	brand, err := h.brandService.GetByOwner(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"brand": brand})
}

// GET /admin/brands/pending
func (h *BrandHandler) Pending(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	brands, total, err := h.brandService.PendingBrands(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(brands, total, params))
}

// PUT /admin/brands/:id/approve
func (h *BrandHandler) Approve(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid brand ID", nil)
		return
	}

	brand, err := h.brandService.Approve(brandID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"brand": brand})
}

// PUT /admin/brands/:id/reject
func (h *BrandHandler) Reject(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid brand ID", nil)
		return
	}

	brand, err := h.brandService.Reject(brandID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"brand": brand})
}

// callerID pulls the authenticated user id out of the request context.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}
