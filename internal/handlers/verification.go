// internal/handlers/verification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/phygital-labs/veritas-backend/internal/chain"
	"github.com/phygital-labs/veritas-backend/internal/services"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
	brandService        *services.BrandService
	chainClient         *chain.Client
}

func NewVerificationHandler(verificationService *services.VerificationService, brandService *services.BrandService, chainClient *chain.Client) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		brandService:        brandService,
		chainClient:         chainClient,
	}
}

// GET /verify/:code
//
// Public. The code is either a product id or the identity value embedded
// in the QR payload.
func (h *VerificationHandler) Verify(c *gin.Context) {
	result, err := h.verificationService.Verify(c.Request.Context(), c.Param("code"), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.Retryable {
		utils.ServiceUnavailableResponse(c, result.Reason, gin.H{"retryable": true})
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /products/:id/history
func (h *VerificationHandler) OwnershipHistory(c *gin.Context) {
	productID, ok := productParam(c)
	if !ok {
		return
	}

	records, err := h.verificationService.OwnershipHistory(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": productID,
		"history":    records,
	})
}

// GET /products/:id/verifications
func (h *VerificationHandler) VerificationLogs(c *gin.Context) {
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

	logs, err := h.verificationService.VerificationLogs(productID, brand.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id":    productID,
		"verifications": logs,
	})
}

// GET /chain/status
//
// Reports node reachability with a cheap contract read.
func (h *VerificationHandler) ChainStatus(c *gin.Context) {
	owner, err := h.chainClient.ContractOwner(c.Request.Context())
	if err != nil {
		utils.SuccessResponse(c, gin.H{
			"connected": false,
			"network":   h.chainClient.Network(),
			"contract":  h.chainClient.ContractAddress().Hex(),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"connected":      true,
		"network":        h.chainClient.Network(),
		"contract":       h.chainClient.ContractAddress().Hex(),
		"contract_owner": owner.Hex(),
		"server_address": h.chainClient.ServerAddress().Hex(),
	})
}
