package workflow

import (
	"errors"
	"fmt"
)

// Reason classifies fatal workflow failures. A negative verification
// verdict is not in this taxonomy: "not on the ledger" is a successful
// answer, not an error.
type Reason string

const (
	ReasonExtractionFailed  Reason = "ExtractionFailed"
	ReasonIntegrityRejected Reason = "IntegrityRejected"
	ReasonStoreTimeout      Reason = "StoreTimeout"
	ReasonStoreNotFound     Reason = "StoreNotFound"
	ReasonStoreFailed       Reason = "StoreFailed"
	ReasonLedgerUnreachable Reason = "LedgerUnreachable"
	ReasonLedgerReverted    Reason = "LedgerReverted"
)

// Error is a fatal workflow failure with a classification and the
// underlying cause. Detail carries contract revert reasons verbatim.
type Error struct {
	Reason Reason
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("workflow: %s: %s", e.Reason, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("workflow: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("workflow: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func failed(reason Reason, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

// ReasonOf extracts the workflow classification from an error chain,
// or "" if the error is not a workflow failure.
func ReasonOf(err error) Reason {
	var we *Error
	if errors.As(err, &we) {
		return we.Reason
	}
	return ""
}

// ErrAlreadyRevoked reports a revocation request against a document the
// ledger already shows revoked. Callers usually treat it as benign.
var ErrAlreadyRevoked = errors.New("workflow: document already revoked")

// ErrNotAnchored reports an operation against a fingerprint the ledger
// has never seen.
var ErrNotAnchored = errors.New("workflow: document not anchored")
