// internal/chain/hash.go
package chain

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var ErrEmptyProductID = errors.New("product id must not be empty")

// HashProductID maps a product's durable identifier to its on-chain lookup
// key. Keccak-256 over the raw id bytes; must stay byte-identical between
// mint and every later verification of the same product.
func HashProductID(productID string) (common.Hash, error) {
	if productID == "" {
		return common.Hash{}, ErrEmptyProductID
	}

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(productID))
	return common.BytesToHash(h.Sum(nil)), nil
}
