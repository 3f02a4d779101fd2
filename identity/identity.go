// Package identity provides the signing identities used to authenticate
// ledger writes. An identity is a keypair plus the ledger address derived
// from its public key; write requests carry a detached signature the ledger
// node verifies before attributing the call.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Supported signature algorithms.
const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

// Signature is a detached signature over sha256(message), carrying the
// public key it verifies under.
type Signature struct {
	Alg       string
	PublicKey []byte
	Sig       []byte
}

// Signer produces detached signatures attributable to a ledger address.
type Signer interface {
	Address() string
	Sign(message []byte) (Signature, error)
}

// Address derives the ledger address for a public key: "0x" followed by
// the last 20 bytes of Keccak-256 over the raw key material. The same
// derivation applies to every algorithm so addresses stay uniform.
func Address(publicKey []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(publicKey)
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}

// Verify checks a detached signature and returns the derived address on
// success.
func Verify(message []byte, sig Signature) (string, error) {
	digest := sha256.Sum256(message)
	switch sig.Alg {
	case AlgEd25519:
		if err := verifyEd25519(digest[:], sig.PublicKey, sig.Sig); err != nil {
			return "", err
		}
	case AlgDilithium3:
		if err := verifyDilithium3(digest[:], sig.PublicKey, sig.Sig); err != nil {
			return "", err
		}
	case "":
		return "", errors.New("identity: missing signature algorithm")
	default:
		return "", fmt.Errorf("identity: unsupported signature algorithm %q", sig.Alg)
	}
	return Address(sig.PublicKey), nil
}
