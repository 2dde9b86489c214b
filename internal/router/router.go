// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phygital-labs/veritas-backend/internal/chain"
	"github.com/phygital-labs/veritas-backend/internal/config"
	"github.com/phygital-labs/veritas-backend/internal/handlers"
	"github.com/phygital-labs/veritas-backend/internal/middleware"
	"github.com/phygital-labs/veritas-backend/internal/services"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, chainClient *chain.Client) *gin.Engine {
	// Initialize services
	brandService := services.NewBrandService(db)
	productService := services.NewProductService(db)
	mintService := services.NewMintService(db, chainClient)
	transferService := services.NewTransferService(db, chainClient)
	verificationService := services.NewVerificationService(db, chainClient)

	// Initialize handlers
	brandHandler := handlers.NewBrandHandler(brandService)
	productHandler := handlers.NewProductHandler(productService, brandService)
	certificateHandler := handlers.NewCertificateHandler(mintService, transferService, brandService)
	verificationHandler := handlers.NewVerificationHandler(verificationService, brandService, chainClient)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Chain status (public)
		v1.GET("/chain/status", verificationHandler.ChainStatus)

		// Verification routes (public)
		verify := v1.Group("/verify")
		verify.Use(middleware.VerifyRateLimit())
		{
			verify.GET("/:code", verificationHandler.Verify)
		}

		// Brand routes
		brands := v1.Group("/brands")
		brands.Use(middleware.AuthRequired())
		{
			brands.POST("/apply", brandHandler.Apply)
			brands.GET("/me", brandHandler.Me)
		}

		// Product routes
		products := v1.Group("/products")
		{
			// Ownership history is public so holders can audit provenance.
			products.GET("/:id/history", verificationHandler.OwnershipHistory)

			// Claim and transfer are holder operations, not brand operations,
			// so they need a session but no brand role.
			chainOps := products.Group("")
			chainOps.Use(middleware.AuthRequired(), middleware.ChainRateLimit())
			{
				chainOps.POST("/:id/claim", certificateHandler.ClaimOwnership)
				chainOps.POST("/:id/transfer", certificateHandler.TransferOwnership)
			}

			// Brand-scoped routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.BrandRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.GET("", productHandler.GetProducts)
				protected.GET("/:id", productHandler.GetProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.PUT("/:id/activate", productHandler.ActivateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.GET("/:id/verifications", verificationHandler.VerificationLogs)
				protected.POST("/:id/mint", middleware.ChainRateLimit(), certificateHandler.MintCertificate)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			adminBrands := admin.Group("/brands")
			{
				adminBrands.GET("/pending", brandHandler.Pending)
				adminBrands.PUT("/:id/approve", brandHandler.Approve)
				adminBrands.PUT("/:id/reject", brandHandler.Reject)
			}

			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("/:id/reconcile", certificateHandler.Reconcile)
			}
		}
	}

	return r
}
