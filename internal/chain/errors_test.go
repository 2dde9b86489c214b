// internal/chain/errors_test.go
package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
	}{
		{"revert", &RevertError{TxHash: "0xabc", Reason: "not owner"}, "Transaction Rejected"},
		{"receipt timeout", &ReceiptTimeoutError{TxHash: "0xabc", Err: context.DeadlineExceeded}, "Transaction Pending"},
		{"missing event", &EventNotFoundError{TxHash: "0xabc", Event: "CertificateMinted"}, "Contract Mismatch"},
		{"unavailable", &UnavailableError{Op: "verifyCertificate", Err: errors.New("connection refused")}, "Verification Unavailable"},
		{"insufficient funds", errors.New("insufficient funds for gas * price + value"), "Insufficient Funds"},
		{"cancelled", errors.New("user denied transaction signature"), "Transaction Cancelled"},
		{"wrong chain", errors.New("invalid chain id for signer"), "Wrong Network"},
		{"deadline", context.DeadlineExceeded, "Network Timeout"},
		{"unknown", errors.New("something else entirely"), "Transaction Failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Classify(tt.err)
			assert.Equal(t, tt.title, msg.Title)
			assert.NotEmpty(t, msg.Message)
		})
	}
}

func TestClassifyWrapped(t *testing.T) {
	err := fmt.Errorf("mint failed: %w", &RevertError{TxHash: "0xabc"})
	assert.Equal(t, "Transaction Rejected", Classify(err).Title)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&UnavailableError{Op: "verifyCertificate", Err: errors.New("eof")}))
	assert.True(t, Retryable(&ReceiptTimeoutError{TxHash: "0xabc", Err: context.DeadlineExceeded}))
	assert.True(t, Retryable(context.DeadlineExceeded))
	assert.True(t, Retryable(fmt.Errorf("wrapped: %w", &UnavailableError{Op: "read", Err: errors.New("eof")})))

	assert.False(t, Retryable(&RevertError{TxHash: "0xabc"}))
	assert.False(t, Retryable(&EventNotFoundError{TxHash: "0xabc", Event: "CertificateMinted"}))
	assert.False(t, Retryable(errors.New("insufficient funds")))
}

func TestRevertErrorMessage(t *testing.T) {
	assert.Contains(t, (&RevertError{TxHash: "0xabc"}).Error(), "reverted")
	assert.Contains(t, (&RevertError{TxHash: "0xabc", Reason: "token does not exist"}).Error(), "token does not exist")
}
