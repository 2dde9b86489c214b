// internal/services/brand_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/phygital-labs/veritas-backend/internal/apperrors"
	"github.com/phygital-labs/veritas-backend/internal/models"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

type BrandServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *BrandService
}

func (suite *BrandServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewBrandService(suite.db)
}

func (suite *BrandServiceTestSuite) TestApplyStartsPendingAndUnverified() {
	ownerID := uuid.New()

	brand, err := suite.service.Apply(ownerID, &BrandApplicationRequest{
		Name:          "Atelier Nord",
		WalletAddress: strPtr(testBrandWallet),
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.BrandStatusPending, brand.Status)
	assert.False(suite.T(), brand.Verified)
}

func (suite *BrandServiceTestSuite) TestApplyTwiceRejected() {
	ownerID := uuid.New()

	_, err := suite.service.Apply(ownerID, &BrandApplicationRequest{Name: "Atelier Nord"})
	require.NoError(suite.T(), err)

	_, err = suite.service.Apply(ownerID, &BrandApplicationRequest{Name: "Atelier Nord Again"})
	assert.ErrorIs(suite.T(), err, apperrors.ErrBrandExists)
}

func (suite *BrandServiceTestSuite) TestApplyRejectsMalformedWallet() {
	_, err := suite.service.Apply(uuid.New(), &BrandApplicationRequest{
		Name:          "Atelier Nord",
		WalletAddress: strPtr("0x123"),
	})
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "validation failed")
}

func (suite *BrandServiceTestSuite) TestApproveVerifiesBrand() {
	brand, err := suite.service.Apply(uuid.New(), &BrandApplicationRequest{Name: "Atelier Nord"})
	require.NoError(suite.T(), err)

	_, err = suite.service.Approve(brand.ID)
	require.NoError(suite.T(), err)

	var reloaded models.Brand
	require.NoError(suite.T(), suite.db.First(&reloaded, "id = ?", brand.ID).Error)
	assert.Equal(suite.T(), models.BrandStatusApproved, reloaded.Status)
	assert.True(suite.T(), reloaded.Verified)
}

func (suite *BrandServiceTestSuite) TestRejectLeavesBrandUnverified() {
	brand, err := suite.service.Apply(uuid.New(), &BrandApplicationRequest{Name: "Atelier Nord"})
	require.NoError(suite.T(), err)

	_, err = suite.service.Reject(brand.ID)
	require.NoError(suite.T(), err)

	var reloaded models.Brand
	require.NoError(suite.T(), suite.db.First(&reloaded, "id = ?", brand.ID).Error)
	assert.Equal(suite.T(), models.BrandStatusRejected, reloaded.Status)
	assert.False(suite.T(), reloaded.Verified)
}

func (suite *BrandServiceTestSuite) TestResolveTwiceRejected() {
	brand, err := suite.service.Apply(uuid.New(), &BrandApplicationRequest{Name: "Atelier Nord"})
	require.NoError(suite.T(), err)

	_, err = suite.service.Approve(brand.ID)
	require.NoError(suite.T(), err)

	_, err = suite.service.Reject(brand.ID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrBrandNotPending)
}

func (suite *BrandServiceTestSuite) TestRequireVerifiedBrand() {
	ownerID := uuid.New()
	brand, err := suite.service.Apply(ownerID, &BrandApplicationRequest{Name: "Atelier Nord"})
	require.NoError(suite.T(), err)

	_, err = suite.service.RequireVerifiedBrand(ownerID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrBrandNotVerified)

	_, err = suite.service.Approve(brand.ID)
	require.NoError(suite.T(), err)

	resolved, err := suite.service.RequireVerifiedBrand(ownerID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), brand.ID, resolved.ID)

	_, err = suite.service.RequireVerifiedBrand(uuid.New())
	assert.ErrorIs(suite.T(), err, apperrors.ErrBrandNotFound)
}

func (suite *BrandServiceTestSuite) TestPendingBrandsListsOnlyPending() {
	_, err := suite.service.Apply(uuid.New(), &BrandApplicationRequest{Name: "Pending One"})
	require.NoError(suite.T(), err)

	approved, err := suite.service.Apply(uuid.New(), &BrandApplicationRequest{Name: "Approved One"})
	require.NoError(suite.T(), err)
	_, err = suite.service.Approve(approved.ID)
	require.NoError(suite.T(), err)

	brands, total, err := suite.service.PendingBrands(utils.PaginationParams{Page: 1, Limit: 20, Order: "desc"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	require.Len(suite.T(), brands, 1)
	assert.Equal(suite.T(), "Pending One", brands[0].Name)
}

func TestBrandServiceSuite(t *testing.T) {
	suite.Run(t, new(BrandServiceTestSuite))
}
