// internal/services/services_test.go
package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phygital-labs/veritas-backend/internal/chain"
	"github.com/phygital-labs/veritas-backend/internal/database"
	"github.com/phygital-labs/veritas-backend/internal/models"
)

const (
	testBrandWallet = "0x1111111111111111111111111111111111111111"
	testOwnerWallet = "0x2222222222222222222222222222222222222222"
	testThirdWallet = "0x3333333333333333333333333333333333333333"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))
	return db
}

// fakeLedger is an in-memory stand-in for the chain client. It tracks call
// counts so tests can assert that an operation never reached the chain, and
// it keeps per-certificate state so ownership survives across calls.
type fakeLedger struct {
	mu sync.Mutex

	mintCalls     int
	transferCalls int
	verifyCalls   int

	mintErr     error
	transferErr error
	verifyErr   error

	nextToken int64
	certs     map[common.Hash]*chain.CertificateState
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{certs: make(map[common.Hash]*chain.CertificateState)}
}

func (f *fakeLedger) MintCertificate(_ context.Context, owner common.Address, productHash common.Hash) (*chain.MintResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mintCalls++
	if f.mintErr != nil {
		return nil, f.mintErr
	}

	f.nextToken++
	tokenID := big.NewInt(f.nextToken)
	f.certs[productHash] = &chain.CertificateState{
		IsValid:      true,
		TokenID:      tokenID,
		CurrentOwner: owner,
	}

	return &chain.MintResult{
		TokenID: tokenID,
		TxHash:  common.HexToHash(fmt.Sprintf("0x%064x", f.nextToken)),
	}, nil
}

func (f *fakeLedger) TransferOwnership(_ context.Context, tokenID *big.Int, from, to common.Address) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transferCalls++
	if f.transferErr != nil {
		return common.Hash{}, f.transferErr
	}

	for _, state := range f.certs {
		if state.TokenID.Cmp(tokenID) == 0 {
			state.CurrentOwner = to
			break
		}
	}

	return common.HexToHash(fmt.Sprintf("0x%064x", 0xff00+f.transferCalls)), nil
}

func (f *fakeLedger) VerifyCertificate(_ context.Context, productHash common.Hash) (*chain.CertificateState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}

	state, ok := f.certs[productHash]
	if !ok {
		return &chain.CertificateState{IsValid: false, TokenID: big.NewInt(0)}, nil
	}

	copied := *state
	return &copied, nil
}

func (f *fakeLedger) ContractAddress() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000aa")
}

func (f *fakeLedger) Network() string { return "testnet" }

// setState overwrites the chain-side record for a product hash, letting
// tests fabricate drift between the registry and the chain.
func (f *fakeLedger) setState(productHash common.Hash, state *chain.CertificateState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.certs[productHash] = state
}

func createTestBrand(t *testing.T, db *gorm.DB, verified bool, wallet *string) *models.Brand {
	t.Helper()

	status := models.BrandStatusPending
	if verified {
		status = models.BrandStatusApproved
	}

	brand := &models.Brand{
		OwnerID:       uuid.New(),
		Name:          "Atelier Nord",
		WalletAddress: wallet,
		Status:        status,
		Verified:      verified,
	}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

func createTestProduct(t *testing.T, db *gorm.DB, brandID uuid.UUID, status models.ProductStatus) *models.Product {
	t.Helper()

	product := &models.Product{
		BrandID:     brandID,
		Name:        "Heritage Chronograph",
		ProductCode: "HC-" + uuid.NewString()[:8],
		Status:      status,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func strPtr(s string) *string { return &s }
