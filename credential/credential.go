// Package credential implements the canonicalization and fingerprinting of
// academic-credential identity fields.
//
// The identity triplet (recipient name, recipient id, document type) is
// serialized into one canonical byte sequence and hashed into a fixed-length
// fingerprint. The fingerprint is the sole value anchored on the ledger;
// everything else about a credential is descriptive metadata stored
// off-chain.
//
// Canonical bytes are load-bearing for cross-implementation compatibility:
// the exact key set, key order, and absence of whitespace or HTML escaping
// must be preserved bit-for-bit.
package credential

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Sentinel replaces an absent or empty identity field so that
// canonicalization is total. It is never omitted.
const Sentinel = "NOT_FOUND"

// Fields holds a credential's identity triplet plus descriptive metadata.
//
// Only RecipientName, RecipientID, and DocumentType participate in the
// fingerprint input. The remaining fields travel in the off-chain metadata
// blob and never affect the fingerprint.
type Fields struct {
	RecipientName string
	RecipientID   string
	DocumentType  string

	RecipientEmail  string
	RecipientWallet string
	DocumentID      string
	Description     string
}

// CanonicalRecord is the deterministic serialization of the identity
// triplet. Two Fields values that are field-for-field equal always produce
// byte-identical records, independent of construction order.
type CanonicalRecord []byte

// canonicalRecord fixes the key set and the lexicographic key order.
// encoding/json emits struct fields in declaration order.
type canonicalRecord struct {
	DocumentType  string `json:"documentType"`
	RecipientID   string `json:"recipientId"`
	RecipientName string `json:"recipientName"`
}

// Canonicalize serializes the identity triplet into canonical bytes.
//
// Each field is trimmed of surrounding whitespace; empty fields become
// Sentinel. The function is total: it cannot fail on any input.
func Canonicalize(f Fields) CanonicalRecord {
	rec := canonicalRecord{
		DocumentType:  fieldOrSentinel(f.DocumentType),
		RecipientID:   fieldOrSentinel(f.RecipientID),
		RecipientName: fieldOrSentinel(f.RecipientName),
	}

	// json.Marshal would escape <, >, and & for HTML embedding, which
	// diverges from the canonical bytes other implementations hash.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		// A struct of three strings cannot fail to encode.
		panic("credential: canonical encoding failed: " + err.Error())
	}
	return CanonicalRecord(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func fieldOrSentinel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Sentinel
	}
	return v
}
