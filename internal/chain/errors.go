// internal/chain/errors.go
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SubmissionError covers everything that prevents a transaction from being
// broadcast: nonce/gas queries, signing, and the send itself. Nothing has
// been spent when this is returned.
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("chain: %s failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// RevertError means the contract rejected a mined transaction. The gas is
// spent and the request is terminal; callers must re-fetch state before
// trying again.
type RevertError struct {
	TxHash string
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("chain: transaction %s reverted", e.TxHash)
	}
	return fmt.Sprintf("chain: transaction %s reverted: %s", e.TxHash, e.Reason)
}

// EventNotFoundError: the transaction succeeded but the expected event is
// absent from its logs. Indicates an ABI/contract mismatch.
type EventNotFoundError struct {
	TxHash string
	Event  string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("chain: transaction %s succeeded but event %s not found in logs; deployed contract may not match the configured ABI", e.TxHash, e.Event)
}

// UnavailableError wraps read-path RPC failures. It never means the queried
// state is invalid, only that it could not be checked right now.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("chain: %s unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ReceiptTimeoutError: the transaction was broadcast but its receipt was not
// observed before the caller's deadline. The operation may still land
// on-chain; any retry must re-query chain state first.
type ReceiptTimeoutError struct {
	TxHash string
	Err    error
}

func (e *ReceiptTimeoutError) Error() string {
	return fmt.Sprintf("chain: timed out waiting for receipt of %s: %v", e.TxHash, e.Err)
}

func (e *ReceiptTimeoutError) Unwrap() error { return e.Err }

// UserMessage is the operator/user-facing rendering of a chain failure.
type UserMessage struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// Classify turns a chain error into an actionable message. The categories
// mirror the failure modes seen in production: wrong network, insufficient
// funds, contract revert, timeout, and a generic fallback.
func Classify(err error) UserMessage {
	var revertErr *RevertError
	if errors.As(err, &revertErr) {
		return UserMessage{
			Title:   "Transaction Rejected",
			Message: "The contract rejected this transaction. The operation is not allowed in the current state.",
			Action:  "Re-check the certificate's current owner and status, then try again.",
		}
	}

	var timeoutErr *ReceiptTimeoutError
	if errors.As(err, &timeoutErr) {
		return UserMessage{
			Title:   "Transaction Pending",
			Message: "The network is taking longer than expected to confirm the transaction. It may still complete.",
			Action:  "Check the transaction hash on a block explorer before retrying.",
		}
	}

	var eventErr *EventNotFoundError
	if errors.As(err, &eventErr) {
		return UserMessage{
			Title:   "Contract Mismatch",
			Message: "The transaction was mined but did not emit the expected event. The local record and the chain may be out of sync.",
			Action:  "Operator intervention required; do not retry.",
		}
	}

	var unavailErr *UnavailableError
	if errors.As(err, &unavailErr) {
		return UserMessage{
			Title:   "Verification Unavailable",
			Message: "The blockchain node could not be reached.",
			Action:  "Try again in a moment.",
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user denied"), strings.Contains(msg, "cancelled"), strings.Contains(msg, "canceled"):
		return UserMessage{
			Title:   "Transaction Cancelled",
			Message: "The transaction was cancelled before it was broadcast.",
			Action:  "Submit the request again when ready.",
		}
	case strings.Contains(msg, "insufficient funds"):
		return UserMessage{
			Title:   "Insufficient Funds",
			Message: "The server wallet does not have enough ETH to pay for gas.",
			Action:  "Fund the server wallet and retry.",
		}
	case strings.Contains(msg, "wrong chain"), strings.Contains(msg, "invalid chain id"), strings.Contains(msg, "network"):
		return UserMessage{
			Title:   "Wrong Network",
			Message: "The configured RPC endpoint does not match the expected chain.",
			Action:  "Check BLOCKCHAIN_RPC_URL and BLOCKCHAIN_CHAIN_ID.",
		}
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return UserMessage{
			Title:   "Network Timeout",
			Message: "The blockchain node did not answer in time.",
			Action:  "Wait and retry; the operation may still have completed.",
		}
	}

	return UserMessage{
		Title:   "Transaction Failed",
		Message: err.Error(),
		Action:  "Try again or contact support if this persists.",
	}
}

// Retryable reports whether an error is a transient availability problem as
// opposed to a definitive rejection.
func Retryable(err error) bool {
	var unavailErr *UnavailableError
	var timeoutErr *ReceiptTimeoutError
	return errors.As(err, &unavailErr) || errors.As(err, &timeoutErr) || errors.Is(err, context.DeadlineExceeded)
}
