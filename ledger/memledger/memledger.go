// Package memledger implements the document registry contract in process.
// It is the reference for contract semantics: the grpcledger server wraps
// it, and tests use it directly.
package memledger

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"

	"certifychain.io/certify/ledger"
)

// Contract holds the registry state. The zero value is not usable; call
// New with the owner address.
type Contract struct {
	mu sync.Mutex

	owner        string
	institutions map[string]ledger.Institution
	documents    map[string]*ledger.Document
	order        []string // issuance order of doc hashes
	byIssuer     map[string][]string
	txSeq        uint64

	now func() time.Time
}

// New creates a registry owned by the given address. The owner is also
// registered as an institution so single-operator deployments work out
// of the box.
func New(owner string) *Contract {
	c := &Contract{
		owner:        normalize(owner),
		institutions: make(map[string]ledger.Institution),
		documents:    make(map[string]*ledger.Document),
		byIssuer:     make(map[string][]string),
		now:          time.Now,
	}
	c.institutions[c.owner] = ledger.Institution{Address: c.owner}
	return c
}

// SetClock overrides the timestamp source. Test hook.
func (c *Contract) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Owner returns the registry owner address.
func (c *Contract) Owner() string {
	return c.owner
}

func normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// txHash derives a deterministic pseudo transaction hash from the state
// transition sequence number. Good enough for receipts and snapshots.
func (c *Contract) txHash(op, docHash string) string {
	c.txSeq++
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], c.txSeq)
	h := sha3.NewLegacyKeccak256()
	h.Write(seq[:])
	h.Write([]byte(op))
	h.Write([]byte(docHash))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// Issue anchors docHash for the caller. The caller must be a registered
// institution and the hash must not already be anchored.
func (c *Contract) Issue(caller, docHash, metadataURI string) (ledger.TxReceipt, error) {
	caller = normalize(caller)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.institutions[caller]; !ok {
		return ledger.TxReceipt{}, ledger.ErrNotInstitution
	}
	if _, ok := c.documents[docHash]; ok {
		return ledger.TxReceipt{}, ledger.ErrAlreadyExists
	}

	c.documents[docHash] = &ledger.Document{
		DocHash:     docHash,
		Issuer:      caller,
		IssuedAt:    c.now().UTC(),
		MetadataURI: metadataURI,
	}
	c.order = append(c.order, docHash)
	c.byIssuer[caller] = append(c.byIssuer[caller], docHash)
	return ledger.TxReceipt{TxHash: c.txHash("issue", docHash)}, nil
}

// Revoke marks docHash revoked. Only the issuer may revoke. Revoking an
// already-revoked document is a no-op that still succeeds: the terminal
// state is identical either way.
func (c *Contract) Revoke(caller, docHash string) (ledger.TxReceipt, error) {
	caller = normalize(caller)
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.documents[docHash]
	if !ok {
		return ledger.TxReceipt{}, &ledger.RevertError{Reason: "Document does not exist"}
	}
	if doc.Issuer != caller {
		return ledger.TxReceipt{}, ledger.ErrNotIssuer
	}
	doc.Revoked = true
	return ledger.TxReceipt{TxHash: c.txHash("revoke", docHash)}, nil
}

// Verify reads the full state for docHash. Unknown hashes are not an
// error. Valid means anchored and not revoked; revoked documents keep
// their issuer and timestamp with Valid false.
func (c *Contract) Verify(docHash string) ledger.Verification {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.documents[docHash]
	if !ok {
		return ledger.Verification{}
	}
	return ledger.Verification{
		Valid:       !doc.Revoked,
		Issuer:      doc.Issuer,
		IssuedAt:    doc.IssuedAt,
		Revoked:     doc.Revoked,
		MetadataURI: doc.MetadataURI,
	}
}

// Documents returns every anchored document in issuance order.
func (c *Contract) Documents() []ledger.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ledger.Document, 0, len(c.order))
	for _, h := range c.order {
		out = append(out, *c.documents[h])
	}
	return out
}

// Institution returns the institution record and its documents in
// issuance order.
func (c *Contract) Institution(address string) (ledger.Institution, []ledger.Document, error) {
	address = normalize(address)
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.institutions[address]
	if !ok {
		return ledger.Institution{}, nil, ledger.ErrNotInstitution
	}
	hashes := c.byIssuer[address]
	docs := make([]ledger.Document, 0, len(hashes))
	for _, h := range hashes {
		docs = append(docs, *c.documents[h])
	}
	return inst, docs, nil
}

// AddInstitution registers an issuer. Owner-only; re-registering updates
// the metadata URI.
func (c *Contract) AddInstitution(caller, address, metadataURI string) (ledger.TxReceipt, error) {
	caller = normalize(caller)
	address = normalize(address)
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ledger.TxReceipt{}, ledger.ErrNotOwner
	}
	c.institutions[address] = ledger.Institution{Address: address, MetadataURI: metadataURI}
	return ledger.TxReceipt{TxHash: c.txHash("addInstitution", address)}, nil
}

// RemoveInstitution deregisters an issuer. Owner-only. Documents the
// institution already anchored stay on the ledger.
func (c *Contract) RemoveInstitution(caller, address string) (ledger.TxReceipt, error) {
	caller = normalize(caller)
	address = normalize(address)
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ledger.TxReceipt{}, ledger.ErrNotOwner
	}
	if _, ok := c.institutions[address]; !ok {
		return ledger.TxReceipt{}, ledger.ErrNotInstitution
	}
	delete(c.institutions, address)
	return ledger.TxReceipt{TxHash: c.txHash("removeInstitution", address)}, nil
}

// Session binds a caller address to a contract, satisfying
// ledger.Registry for in-process use.
type Session struct {
	Contract *Contract
	Caller   string
}

var _ ledger.Registry = (*Session)(nil)

func (s *Session) IssueDocument(ctx context.Context, docHash, metadataURI string) (ledger.TxReceipt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.TxReceipt{}, err
	}
	return s.Contract.Issue(s.Caller, docHash, metadataURI)
}

func (s *Session) RevokeDocument(ctx context.Context, docHash string) (ledger.TxReceipt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.TxReceipt{}, err
	}
	return s.Contract.Revoke(s.Caller, docHash)
}

func (s *Session) VerifyDocument(ctx context.Context, docHash string) (ledger.Verification, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Verification{}, err
	}
	return s.Contract.Verify(docHash), nil
}

func (s *Session) ListDocuments(ctx context.Context) ([]ledger.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Contract.Documents(), nil
}

func (s *Session) InstitutionDocuments(ctx context.Context, address string) (ledger.Institution, []ledger.Document, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Institution{}, nil, err
	}
	return s.Contract.Institution(address)
}

func (s *Session) AddInstitution(ctx context.Context, address, metadataURI string) (ledger.TxReceipt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.TxReceipt{}, err
	}
	return s.Contract.AddInstitution(s.Caller, address, metadataURI)
}

func (s *Session) RemoveInstitution(ctx context.Context, address string) (ledger.TxReceipt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.TxReceipt{}, err
	}
	return s.Contract.RemoveInstitution(s.Caller, address)
}
