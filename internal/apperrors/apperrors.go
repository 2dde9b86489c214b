// internal/apperrors/apperrors.go
package apperrors

import "errors"

// Stable error kinds surfaced by the services. Handlers translate these to
// HTTP responses with errors.Is; chain-level failures carry their own types
// in the chain package.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrBrandNotFound     = errors.New("brand not found")
	ErrNotBrandOwner     = errors.New("product does not belong to this brand")
	ErrAlreadyActive     = errors.New("product is not in draft status")
	ErrIdentityConflict  = errors.New("product already has an identity")
	ErrProductFlagged    = errors.New("product is flagged and can no longer be modified")
	ErrProductNotActive  = errors.New("product must be active")
	ErrAlreadyMinted     = errors.New("certificate already minted for this product")
	ErrNotMinted         = errors.New("no certificate minted for this product")
	ErrBrandNotVerified  = errors.New("brand is not verified")
	ErrNoWalletAddress   = errors.New("brand has no wallet address")
	ErrInvalidAddress    = errors.New("invalid wallet address format")
	ErrNotCurrentOwner   = errors.New("wallet is not the current on-chain owner")
	ErrSelfTransfer      = errors.New("destination wallet already owns this certificate")
	ErrCertificateStale  = errors.New("certificate not found on chain")
	ErrBrandExists       = errors.New("a brand application already exists for this user")
	ErrBrandNotPending   = errors.New("brand application is not pending")
	ErrDuplicateCode     = errors.New("product code already exists")
)
