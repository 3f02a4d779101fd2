// Package ledger defines the document registry contract surface: the
// append-only record of issued and revoked document fingerprints, keyed by
// issuer address. Implementations include the in-process memledger and the
// grpcledger client that talks to a remote node.
package ledger

import (
	"context"
	"time"
)

// Document is one anchored fingerprint as the registry stores it.
type Document struct {
	DocHash     string
	Issuer      string
	IssuedAt    time.Time
	Revoked     bool
	MetadataURI string
}

// Institution is a registered issuer.
type Institution struct {
	Address     string
	MetadataURI string
}

// Verification is the full on-ledger state for one fingerprint.
// Valid means anchored and not revoked, so a consumer that gates on
// Valid alone never accepts a revoked document. Revoked documents keep
// their issuer and timestamp with Valid false.
type Verification struct {
	Valid       bool
	Issuer      string
	IssuedAt    time.Time
	Revoked     bool
	MetadataURI string
}

// Exists reports whether the fingerprint is anchored at all. Revoked
// documents exist; unknown ones do not.
func (v Verification) Exists() bool {
	return v.Valid || v.Revoked
}

// TxReceipt identifies a completed write.
type TxReceipt struct {
	TxHash string
}

// Registry is the ledger contract surface. Writes are attributed to the
// caller identity bound to the implementation; reads are anonymous.
type Registry interface {
	// IssueDocument anchors a fingerprint with its metadata URI.
	// Returns ErrAlreadyExists when the hash is already anchored and
	// ErrNotInstitution when the caller is not a registered issuer.
	IssueDocument(ctx context.Context, docHash, metadataURI string) (TxReceipt, error)

	// RevokeDocument marks an anchored fingerprint revoked. Only the
	// original issuer may revoke; revoking an already-revoked document
	// succeeds without effect.
	RevokeDocument(ctx context.Context, docHash string) (TxReceipt, error)

	// VerifyDocument reads the full state for a fingerprint. An unknown
	// hash is not an error: it returns a zero Verification.
	VerifyDocument(ctx context.Context, docHash string) (Verification, error)

	// ListDocuments returns every anchored document in issuance order.
	ListDocuments(ctx context.Context) ([]Document, error)

	// InstitutionDocuments returns the institution record and its issued
	// documents. Unknown addresses return ErrNotInstitution.
	InstitutionDocuments(ctx context.Context, address string) (Institution, []Document, error)

	// AddInstitution registers an issuer. Owner-only.
	AddInstitution(ctx context.Context, address, metadataURI string) (TxReceipt, error)

	// RemoveInstitution deregisters an issuer so it can no longer anchor
	// documents. Owner-only; already-issued documents are untouched.
	// Unknown addresses return ErrNotInstitution.
	RemoveInstitution(ctx context.Context, address string) (TxReceipt, error)
}
