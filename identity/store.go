package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyStore is a local-first keystore for ed25519 issuer identities.
//
// One file per identity, hex-encoded seed, 0600 permissions. Post-quantum
// identities are generated in-memory by callers that need them; only the
// classical issuer keys are persisted here.
type KeyStore struct {
	Directory string
}

// DefaultDirectory is ~/.certify/keys.
func DefaultDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".certify", "keys"), nil
}

func OpenKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

// CheckName restricts identity names to filesystem-safe characters.
func CheckName(name string) error {
	if name == "" {
		return errors.New("identity: name cannot be empty")
	}
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			continue
		}
		return fmt.Errorf("identity: invalid character %q in name", c)
	}
	return nil
}

// ParseSeedHex decodes a 32-byte hex seed, tolerating a 0x prefix.
func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimPrefix(strings.TrimSpace(seedHex), "0x")
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(seed) != 32 {
		return nil, fmt.Errorf("identity: expected 32-byte seed, got %d bytes", len(seed))
	}
	return seed, nil
}

func (ks *KeyStore) pathFor(name string) string {
	return filepath.Join(ks.Directory, name+".key")
}

// Create generates a new identity under name. An explicit seed may be
// supplied for deterministic provisioning; nil means fresh randomness.
func (ks *KeyStore) Create(name string, seed []byte, force bool) (*Ed25519Signer, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	path := ks.pathFor(name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("identity: key %q already exists", name)
		}
	}

	var signer *Ed25519Signer
	if seed == nil {
		var err error
		signer, seed, err = GenerateEd25519Signer(rand.Reader)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		signer, err = NewEd25519Signer(seed)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(ks.Directory, 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(seed)+"\n"), 0o600); err != nil {
		return nil, err
	}
	return signer, nil
}

// Load opens the named identity.
func (ks *KeyStore) Load(name string) (*Ed25519Signer, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(ks.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("identity: unknown key %q", name)
		}
		return nil, err
	}
	seed, err := ParseSeedHex(string(raw))
	if err != nil {
		return nil, fmt.Errorf("identity: key %q: %w", name, err)
	}
	return NewEd25519Signer(seed)
}

// List returns the stored identity names, sorted.
func (ks *KeyStore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".key") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".key"))
	}
	sort.Strings(names)
	return names, nil
}
