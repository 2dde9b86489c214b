// internal/handlers/certificate.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/phygital-labs/veritas-backend/internal/services"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

type CertificateHandler struct {
	mintService     *services.MintService
	transferService *services.TransferService
	brandService    *services.BrandService
}

func NewCertificateHandler(mintService *services.MintService, transferService *services.TransferService, brandService *services.BrandService) *CertificateHandler {
	return &CertificateHandler{
		mintService:     mintService,
		transferService: transferService,
		brandService:    brandService,
	}
}

type ClaimRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,eth_addr"`
}

type TransferRequest struct {
	FromAddress string `json:"from_address" validate:"required,eth_addr"`
	ToAddress   string `json:"to_address" validate:"required,eth_addr"`
}

// POST /products/:id/mint
func (h *CertificateHandler) MintCertificate(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	brand, err := h.brandService.RequireVerifiedBrand(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	productID, ok := productParam(c)
	if !ok {
		return
	}

	outcome, err := h.mintService.Mint(c.Request.Context(), productID, brand.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"certificate": outcome.Certificate,
		"token_id":    outcome.TokenID,
		"tx_hash":     outcome.TxHash,
	})
}

// POST /admin/products/:id/reconcile
//
// Read-repair for a mint whose local write was lost. Admin only.
func (h *CertificateHandler) Reconcile(c *gin.Context) {
	productID, ok := productParam(c)
	if !ok {
		return
	}

	outcome, err := h.mintService.Reconcile(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"certificate": outcome.Certificate,
		"token_id":    outcome.TokenID,
	})
}

// POST /products/:id/claim
func (h *CertificateHandler) ClaimOwnership(c *gin.Context) {
	productID, ok := productParam(c)
	if !ok {
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	txHash, err := h.transferService.Claim(c.Request.Context(), productID, req.WalletAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": productID,
		"new_owner":  req.WalletAddress,
		"tx_hash":    txHash,
	})
}

// POST /products/:id/transfer
func (h *CertificateHandler) TransferOwnership(c *gin.Context) {
	productID, ok := productParam(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	txHash, err := h.transferService.Transfer(c.Request.Context(), productID, req.FromAddress, req.ToAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": productID,
		"from":       req.FromAddress,
		"to":         req.ToAddress,
		"tx_hash":    txHash,
	})
}
