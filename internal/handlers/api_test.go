// internal/handlers/api_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phygital-labs/veritas-backend/internal/chain"
	"github.com/phygital-labs/veritas-backend/internal/database"
	"github.com/phygital-labs/veritas-backend/internal/middleware"
	"github.com/phygital-labs/veritas-backend/internal/services"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

const apiTestWallet = "0x4444444444444444444444444444444444444444"

// stubLedger backs the HTTP tests with deterministic chain behavior.
type stubLedger struct {
	mu        sync.Mutex
	nextToken int64
	certs     map[common.Hash]*chain.CertificateState
}

func newStubLedger() *stubLedger {
	return &stubLedger{certs: make(map[common.Hash]*chain.CertificateState)}
}

func (s *stubLedger) MintCertificate(_ context.Context, owner common.Address, productHash common.Hash) (*chain.MintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextToken++
	tokenID := big.NewInt(s.nextToken)
	s.certs[productHash] = &chain.CertificateState{IsValid: true, TokenID: tokenID, CurrentOwner: owner}
	return &chain.MintResult{
		TokenID: tokenID,
		TxHash:  common.HexToHash(fmt.Sprintf("0x%064x", s.nextToken)),
	}, nil
}

func (s *stubLedger) TransferOwnership(_ context.Context, tokenID *big.Int, from, to common.Address) (common.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, state := range s.certs {
		if state.TokenID.Cmp(tokenID) == 0 {
			state.CurrentOwner = to
		}
	}
	return common.HexToHash(fmt.Sprintf("0x%064x", 0xee00+tokenID.Int64())), nil
}

func (s *stubLedger) VerifyCertificate(_ context.Context, productHash common.Hash) (*chain.CertificateState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.certs[productHash]; ok {
		copied := *state
		return &copied, nil
	}
	return &chain.CertificateState{IsValid: false, TokenID: big.NewInt(0)}, nil
}

func (s *stubLedger) ContractAddress() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000bb")
}

func (s *stubLedger) Network() string { return "testnet" }

type APITestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	ledger  *stubLedger
	ownerID uuid.UUID
	adminID uuid.UUID
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)
	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(suite.T(), database.RunMigrations(db))

	suite.db = db
	suite.ledger = newStubLedger()
	suite.ownerID = uuid.New()
	suite.adminID = uuid.New()

	brandService := services.NewBrandService(db)
	productService := services.NewProductService(db)
	mintService := services.NewMintService(db, suite.ledger)
	transferService := services.NewTransferService(db, suite.ledger)
	verificationService := services.NewVerificationService(db, suite.ledger)

	brandHandler := NewBrandHandler(brandService)
	productHandler := NewProductHandler(productService, brandService)
	certificateHandler := NewCertificateHandler(mintService, transferService, brandService)
	verificationHandler := NewVerificationHandler(verificationService, brandService, nil)

	r := gin.New()
	v1 := r.Group("/v1")

	v1.GET("/verify/:code", verificationHandler.Verify)

	brands := v1.Group("/brands")
	brands.Use(middleware.AuthRequired())
	brands.POST("/apply", brandHandler.Apply)
	brands.GET("/me", brandHandler.Me)

	products := v1.Group("/products")
	products.GET("/:id/history", verificationHandler.OwnershipHistory)

	holder := products.Group("")
	holder.Use(middleware.AuthRequired())
	holder.POST("/:id/claim", certificateHandler.ClaimOwnership)
	holder.POST("/:id/transfer", certificateHandler.TransferOwnership)

	protected := products.Group("")
	protected.Use(middleware.AuthRequired(), middleware.BrandRequired())
	protected.POST("", productHandler.CreateProduct)
	protected.PUT("/:id/activate", productHandler.ActivateProduct)
	protected.POST("/:id/mint", certificateHandler.MintCertificate)

	admin := v1.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/brands/pending", brandHandler.Pending)
	admin.PUT("/brands/:id/approve", brandHandler.Approve)

	suite.router = r
}

func (suite *APITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) brandToken() string {
	token, err := utils.GenerateJWT(suite.ownerID, "brand", time.Hour)
	require.NoError(suite.T(), err)
	return token
}

func (suite *APITestSuite) userToken() string {
	token, err := utils.GenerateJWT(uuid.New(), "user", time.Hour)
	require.NoError(suite.T(), err)
	return token
}

func (suite *APITestSuite) adminToken() string {
	token, err := utils.GenerateJWT(suite.adminID, "admin", time.Hour)
	require.NoError(suite.T(), err)
	return token
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// approvedBrand walks the application flow through the HTTP surface.
func (suite *APITestSuite) approvedBrand() {
	w := suite.request("POST", "/v1/brands/apply", suite.brandToken(), map[string]interface{}{
		"name":           "Atelier Nord",
		"wallet_address": apiTestWallet,
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decode(w)
	brand := response["data"].(map[string]interface{})["brand"].(map[string]interface{})
	brandID := brand["id"].(string)

	w = suite.request("PUT", "/v1/admin/brands/"+brandID+"/approve", suite.adminToken(), nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *APITestSuite) createActiveProduct() (productID, identity string) {
	w := suite.request("POST", "/v1/products", suite.brandToken(), map[string]interface{}{
		"name":         "Heritage Chronograph",
		"product_code": "HC-2026-001",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decode(w)
	product := response["data"].(map[string]interface{})["product"].(map[string]interface{})
	productID = product["id"].(string)

	w = suite.request("PUT", "/v1/products/"+productID+"/activate", suite.brandToken(), nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	response = suite.decode(w)
	identityObj := response["data"].(map[string]interface{})["identity"].(map[string]interface{})
	identity = identityObj["value"].(string)
	return productID, identity
}

func (suite *APITestSuite) TestAuthRequired() {
	w := suite.request("POST", "/v1/products", "", map[string]interface{}{"name": "x"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestBrandRoleRequired() {
	token, err := utils.GenerateJWT(uuid.New(), "user", time.Hour)
	require.NoError(suite.T(), err)

	w := suite.request("POST", "/v1/products", token, map[string]interface{}{"name": "x"})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestUnverifiedBrandCannotCreateProducts() {
	w := suite.request("POST", "/v1/brands/apply", suite.brandToken(), map[string]interface{}{
		"name": "Atelier Nord",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.request("POST", "/v1/products", suite.brandToken(), map[string]interface{}{
		"name":         "Heritage Chronograph",
		"product_code": "HC-2026-001",
	})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestVerifyUnknownCode() {
	w := suite.request("GET", "/v1/verify/"+uuid.NewString(), "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestMintBeforeActivationRejected() {
	suite.approvedBrand()

	w := suite.request("POST", "/v1/products", suite.brandToken(), map[string]interface{}{
		"name":         "Heritage Chronograph",
		"product_code": "HC-2026-001",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code)
	response := suite.decode(w)
	productID := response["data"].(map[string]interface{})["product"].(map[string]interface{})["id"].(string)

	w = suite.request("POST", "/v1/products/"+productID+"/mint", suite.brandToken(), nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestFullLifecycleOverHTTP() {
	suite.approvedBrand()
	productID, identity := suite.createActiveProduct()

	// Mint.
	w := suite.request("POST", "/v1/products/"+productID+"/mint", suite.brandToken(), nil)
	require.Equal(suite.T(), http.StatusCreated, w.Code)
	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "1", data["token_id"])

	// Second mint conflicts without touching the chain again.
	w = suite.request("POST", "/v1/products/"+productID+"/mint", suite.brandToken(), nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	// Public verification by QR identity.
	w = suite.request("GET", "/v1/verify/"+identity, "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	response = suite.decode(w)
	result := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), true, result["authentic"])

	// Claim to the first customer.
	w = suite.request("POST", "/v1/products/"+productID+"/claim", suite.userToken(), map[string]interface{}{
		"wallet_address": "0x5555555555555555555555555555555555555555",
	})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	// Transfer from the brand wallet now fails: it no longer owns the token.
	w = suite.request("POST", "/v1/products/"+productID+"/transfer", suite.userToken(), map[string]interface{}{
		"from_address": apiTestWallet,
		"to_address":   "0x6666666666666666666666666666666666666666",
	})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// The customer can.
	w = suite.request("POST", "/v1/products/"+productID+"/transfer", suite.userToken(), map[string]interface{}{
		"from_address": "0x5555555555555555555555555555555555555555",
		"to_address":   "0x6666666666666666666666666666666666666666",
	})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	// Public history shows mint, claim, and transfer.
	w = suite.request("GET", "/v1/products/"+productID+"/history", "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	response = suite.decode(w)
	history := response["data"].(map[string]interface{})["history"].([]interface{})
	assert.Len(suite.T(), history, 3)
}

func (suite *APITestSuite) TestSelfTransferConflicts() {
	suite.approvedBrand()
	productID, _ := suite.createActiveProduct()

	w := suite.request("POST", "/v1/products/"+productID+"/mint", suite.brandToken(), nil)
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.request("POST", "/v1/products/"+productID+"/claim", suite.userToken(), map[string]interface{}{
		"wallet_address": apiTestWallet,
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
