package ledger

import (
	"errors"
	"fmt"
)

// Deterministic contract rejections. These are terminal: a rejected write
// is never retried, on either endpoint.
var (
	ErrAlreadyExists  = errors.New("ledger: document already issued")
	ErrNotIssuer      = errors.New("ledger: caller is not the issuer")
	ErrNotInstitution = errors.New("ledger: caller is not a registered institution")
	ErrNotOwner       = errors.New("ledger: caller is not the registry owner")
)

// ErrUnreachable marks transport-level failure: the node could not be
// reached or did not answer in time. Reads may retry an alternate
// endpoint on this error; writes never do.
var ErrUnreachable = errors.New("ledger: node unreachable")

// RevertError carries a contract revert reason verbatim.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("ledger: reverted: %s", e.Reason)
}

// IsUnreachable reports whether err is a transport failure rather than a
// contract decision.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// IsRejection reports whether err is a deterministic contract rejection.
func IsRejection(err error) bool {
	var revert *RevertError
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotIssuer) ||
		errors.Is(err, ErrNotInstitution) ||
		errors.Is(err, ErrNotOwner) ||
		errors.As(err, &revert)
}
