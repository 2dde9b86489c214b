// internal/services/ledger.go
package services

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/phygital-labs/veritas-backend/internal/chain"
)

// Ledger is the chain surface the orchestrators depend on. *chain.Client
// implements it; tests substitute a recording fake.
type Ledger interface {
	MintCertificate(ctx context.Context, owner common.Address, productHash common.Hash) (*chain.MintResult, error)
	TransferOwnership(ctx context.Context, tokenID *big.Int, from, to common.Address) (common.Hash, error)
	VerifyCertificate(ctx context.Context, productHash common.Hash) (*chain.CertificateState, error)
	ContractAddress() common.Address
	Network() string
}
