package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"io"
)

// Ed25519Signer is the default, classical signing identity.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	addr string
}

var _ Signer = (*Ed25519Signer)(nil)

// NewEd25519Signer derives a signer from a 32-byte seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("identity: ed25519 seed must be 32 bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Ed25519Signer{priv: priv, pub: pub, addr: Address(pub)}, nil
}

// GenerateEd25519Signer creates a signer from fresh randomness.
func GenerateEd25519Signer(rand io.Reader) (*Ed25519Signer, []byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, nil, err
	}
	s, err := NewEd25519Signer(seed)
	if err != nil {
		return nil, nil, err
	}
	return s, seed, nil
}

func (s *Ed25519Signer) Address() string { return s.addr }

func (s *Ed25519Signer) PublicKey() ed25519.PublicKey { return s.pub }

func (s *Ed25519Signer) Sign(message []byte) (Signature, error) {
	digest := sha256.Sum256(message)
	return Signature{
		Alg:       AlgEd25519,
		PublicKey: append([]byte(nil), s.pub...),
		Sig:       ed25519.Sign(s.priv, digest[:]),
	}, nil
}

func verifyEd25519(digest, pub, sig []byte) error {
	if len(pub) != ed25519.PublicKeySize {
		return errors.New("identity: invalid ed25519 public key length")
	}
	if len(sig) != ed25519.SignatureSize {
		return errors.New("identity: invalid ed25519 signature length")
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
		return errors.New("identity: ed25519 signature did not verify")
	}
	return nil
}
