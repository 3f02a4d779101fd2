package credential

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// FingerprintPrefix is the hex prefix the target ledger expects on digests.
const FingerprintPrefix = "0x"

// Fingerprint hashes canonical bytes into the ledger-anchored digest:
// "0x" followed by 64 lowercase hex characters of Keccak-256.
//
// Pure function of the record: no randomness, no time dependence. The same
// physical document, re-encoded as PDF or image, resolves to one fingerprint
// as long as the identity triplet is reproduced identically.
func Fingerprint(record CanonicalRecord) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(record)
	return FingerprintPrefix + hex.EncodeToString(h.Sum(nil))
}

// FingerprintFields is the composed convenience used by both workflows.
func FingerprintFields(f Fields) string {
	return Fingerprint(Canonicalize(f))
}
