// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWalletAddress(t *testing.T) {
	assert.True(t, IsWalletAddress("0x1111111111111111111111111111111111111111"))
	assert.True(t, IsWalletAddress("0xABCDEF0123456789abcdef0123456789ABCDEF01"))

	assert.False(t, IsWalletAddress(""))
	assert.False(t, IsWalletAddress("0x123"))
	assert.False(t, IsWalletAddress("1111111111111111111111111111111111111111"))
	assert.False(t, IsWalletAddress("0xZZ11111111111111111111111111111111111111"))
	assert.False(t, IsWalletAddress("0x11111111111111111111111111111111111111111"))
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress(
		"0xABCDEF0123456789abcdef0123456789ABCDEF01",
		"0xabcdef0123456789abcdef0123456789abcdef01",
	))
	assert.False(t, SameAddress(
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	))
}

func TestProductCodeValidation(t *testing.T) {
	type payload struct {
		Code string `validate:"required,product_code"`
	}

	assert.NoError(t, ValidateStruct(&payload{Code: "HC-2026_001"}))
	assert.Error(t, ValidateStruct(&payload{Code: "ab"}))
	assert.Error(t, ValidateStruct(&payload{Code: "has spaces"}))
	assert.Error(t, ValidateStruct(&payload{Code: "sku/with/slashes"}))
}

func TestEthAddrValidation(t *testing.T) {
	type payload struct {
		Wallet string `validate:"required,eth_addr"`
	}

	assert.NoError(t, ValidateStruct(&payload{Wallet: "0x1111111111111111111111111111111111111111"}))
	assert.Error(t, ValidateStruct(&payload{Wallet: "0x123"}))
}
