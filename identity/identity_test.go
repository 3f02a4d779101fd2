package identity

import (
	"crypto/rand"
	"regexp"
	"strings"
	"testing"
)

var addrRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

func seedByte(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestEd25519_SignVerifyRoundTrip(t *testing.T) {
	s, err := NewEd25519Signer(seedByte(0xA1))
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	msg := []byte("certify-ledger/v1\nIssue\n0xabc\nstore://bafy")

	sig, err := s.Sign(msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	addr, err := Verify(msg, sig)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if addr != s.Address() {
		t.Fatalf("derived address %s != signer address %s", addr, s.Address())
	}
	if !addrRe.MatchString(addr) {
		t.Fatalf("address %q not 0x + 40 hex", addr)
	}
}

func TestEd25519_TamperedMessageRejected(t *testing.T) {
	s, err := NewEd25519Signer(seedByte(0xB2))
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	sig, err := s.Sign([]byte("original"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Verify([]byte("tampered"), sig); err == nil {
		t.Fatalf("tampered message verified")
	}
}

func TestAddress_DeterministicPerSeed(t *testing.T) {
	a1, _ := NewEd25519Signer(seedByte(0x01))
	a2, _ := NewEd25519Signer(seedByte(0x01))
	b, _ := NewEd25519Signer(seedByte(0x02))

	if a1.Address() != a2.Address() {
		t.Fatalf("same seed produced different addresses")
	}
	if a1.Address() == b.Address() {
		t.Fatalf("different seeds produced the same address")
	}
}

func TestDilithium3_SignVerifyRoundTrip(t *testing.T) {
	s, err := GenerateDilithium3Signer(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateDilithium3Signer: %v", err)
	}
	msg := []byte("post-quantum issuance")

	sig, err := s.Sign(msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sig.Alg != AlgDilithium3 {
		t.Fatalf("alg = %s", sig.Alg)
	}
	addr, err := Verify(msg, sig)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if addr != s.Address() {
		t.Fatalf("derived address mismatch")
	}
	if _, err := Verify([]byte("other"), sig); err == nil {
		t.Fatalf("wrong message verified")
	}
}

func TestVerify_UnsupportedAlg(t *testing.T) {
	if _, err := Verify([]byte("m"), Signature{Alg: "rsa"}); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
	if _, err := Verify([]byte("m"), Signature{}); err == nil {
		t.Fatalf("expected error for missing algorithm")
	}
}

func TestKeyStore_CreateLoadList(t *testing.T) {
	ks, err := OpenKeyStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenKeyStore: %v", err)
	}

	created, err := ks.Create("sit-registrar", nil, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	loaded, err := ks.Load("sit-registrar")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Address() != created.Address() {
		t.Fatalf("loaded address %s != created %s", loaded.Address(), created.Address())
	}

	if _, err := ks.Create("sit-registrar", nil, false); err == nil {
		t.Fatalf("expected duplicate-name error")
	}

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "sit-registrar" {
		t.Fatalf("List = %v", names)
	}
}

func TestKeyStore_NameValidation(t *testing.T) {
	ks, err := OpenKeyStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenKeyStore: %v", err)
	}
	for _, bad := range []string{"", "../escape", "a b", "x/y"} {
		if _, err := ks.Create(bad, nil, false); err == nil {
			t.Fatalf("expected error for name %q", bad)
		}
	}
}

func TestParseSeedHex(t *testing.T) {
	seed := seedByte(0x7F)
	hexSeed := "0x" + strings.Repeat("7f", 32)
	got, err := ParseSeedHex(hexSeed)
	if err != nil {
		t.Fatalf("ParseSeedHex: %v", err)
	}
	if string(got) != string(seed) {
		t.Fatalf("seed mismatch")
	}
	if _, err := ParseSeedHex("7f7f"); err == nil {
		t.Fatalf("expected length error")
	}
}
