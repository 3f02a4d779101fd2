package identity

import (
	"crypto/sha256"
	"errors"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// Dilithium3Signer is the post-quantum signing identity for institutions
// that require it. Signatures are much larger than ed25519's; the wire
// protocol carries them opaquely.
type Dilithium3Signer struct {
	priv *mode3.PrivateKey
	pub  *mode3.PublicKey
	addr string
}

var _ Signer = (*Dilithium3Signer)(nil)

// GenerateDilithium3Signer creates a post-quantum signer.
func GenerateDilithium3Signer(rand io.Reader) (*Dilithium3Signer, error) {
	pub, priv, err := mode3.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	raw, err := pub.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &Dilithium3Signer{priv: priv, pub: pub, addr: Address(raw)}, nil
}

func (s *Dilithium3Signer) Address() string { return s.addr }

func (s *Dilithium3Signer) Sign(message []byte) (Signature, error) {
	raw, err := s.pub.MarshalBinary()
	if err != nil {
		return Signature{}, err
	}
	digest := sha256.Sum256(message)
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(s.priv, digest[:], sig)
	return Signature{Alg: AlgDilithium3, PublicKey: raw, Sig: sig}, nil
}

func verifyDilithium3(digest, pub, sig []byte) error {
	var pk mode3.PublicKey
	if err := pk.UnmarshalBinary(pub); err != nil {
		return errors.New("identity: invalid dilithium3 public key")
	}
	if len(sig) != mode3.SignatureSize {
		return errors.New("identity: invalid dilithium3 signature length")
	}
	if !mode3.Verify(&pk, digest, sig) {
		return errors.New("identity: dilithium3 signature did not verify")
	}
	return nil
}
