// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phygital-labs/veritas-backend/internal/models"
	"github.com/phygital-labs/veritas-backend/internal/services"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	brandService   *services.BrandService
}

func NewProductHandler(productService *services.ProductService, brandService *services.BrandService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		brandService:   brandService,
	}
}

// brandForCaller resolves the caller's verified brand or writes the error.
func (h *ProductHandler) brandForCaller(c *gin.Context) (*models.Brand, bool) {
	ownerID, ok := callerID(c)
	if !ok {
		return nil, false
	}

	brand, err := h.brandService.RequireVerifiedBrand(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	return brand, true
}

func productParam(c *gin.Context) (uuid.UUID, bool) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return uuid.Nil, false
	}
	return productID, true
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	brand, ok := h.brandForCaller(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.CreateProduct(brand.ID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"product": product})
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	brand, ok := h.brandForCaller(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	products, total, err := h.productService.ListProducts(brand.ID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	brand, ok := h.brandForCaller(c)
	if !ok {
		return
	}

	productID, ok := productParam(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(productID, brand.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	brand, ok := h.brandForCaller(c)
	if !ok {
		return
	}

	productID, ok := productParam(c)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(productID, brand.ID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// PUT /products/:id/activate
func (h *ProductHandler) ActivateProduct(c *gin.Context) {
	brand, ok := h.brandForCaller(c)
	if !ok {
		return
	}

	productID, ok := productParam(c)
	if !ok {
		return
	}

	identity, err := h.productService.Activate(productID, brand.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": productID,
		"identity":   identity,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	brand, ok := h.brandForCaller(c)
	if !ok {
		return
	}

	productID, ok := productParam(c)
	if !ok {
		return
	}

	outcome, err := h.productService.FlagOrDelete(productID, brand.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"outcome": outcome})
}
