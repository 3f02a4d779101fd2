package grpcledger

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"certifychain.io/certify/ledger"
)

// Contract rejections cross the wire as fixed machine tokens in the
// status message, so the client maps them back by exact lookup rather
// than by parsing prose. Revert reasons are free-form and travel behind
// a prefix instead.
const (
	tokenAlreadyExists  = "ALREADY_EXISTS"
	tokenNotIssuer      = "NOT_ISSUER"
	tokenNotOwner       = "NOT_OWNER"
	tokenNotInstitution = "NOT_INSTITUTION"

	revertPrefix = "reverted: "
)

var rejectionByToken = map[string]error{
	tokenAlreadyExists:  ledger.ErrAlreadyExists,
	tokenNotIssuer:      ledger.ErrNotIssuer,
	tokenNotOwner:       ledger.ErrNotOwner,
	tokenNotInstitution: ledger.ErrNotInstitution,
}

// mapRegistryErr translates ledger errors to gRPC status codes on the
// server side.
func mapRegistryErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ledger.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, tokenAlreadyExists)
	case errors.Is(err, ledger.ErrNotIssuer):
		return status.Error(codes.PermissionDenied, tokenNotIssuer)
	case errors.Is(err, ledger.ErrNotOwner):
		return status.Error(codes.PermissionDenied, tokenNotOwner)
	case errors.Is(err, ledger.ErrNotInstitution):
		return status.Error(codes.FailedPrecondition, tokenNotInstitution)
	}
	var revert *ledger.RevertError
	if errors.As(err, &revert) {
		return status.Error(codes.FailedPrecondition, revertPrefix+revert.Reason)
	}
	return status.Error(codes.Internal, err.Error())
}

// mapRPC translates gRPC status codes back into the ledger error
// taxonomy on the client side. Revert reasons survive the round trip
// verbatim.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return ledger.ErrUnreachable
	}
	if rejection, ok := rejectionByToken[st.Message()]; ok {
		return rejection
	}
	switch st.Code() {
	case codes.AlreadyExists:
		return ledger.ErrAlreadyExists
	case codes.FailedPrecondition:
		if reason, found := strings.CutPrefix(st.Message(), revertPrefix); found {
			return &ledger.RevertError{Reason: reason}
		}
		return ledger.ErrNotInstitution
	case codes.Unavailable, codes.DeadlineExceeded:
		return ledger.ErrUnreachable
	}
	return err
}
