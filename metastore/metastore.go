// Package metastore is the metadata store client: it rounds credential
// metadata blobs through a content-addressed store and translates between
// CIDs and the "store://" URIs anchored on the ledger.
//
// The store is append-only by construction — a new write yields a new CID —
// so blobs are created once at issuance time and immutable thereafter. Put
// is at-least-once safe because identical content maps to the identical
// CID.
package metastore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"

	"certifychain.io/certify/credential"
	"certifychain.io/certify/storage"
)

// URIScheme prefixes metadata CIDs when they are written to the ledger.
const URIScheme = "store://"

// legacyURIScheme is accepted on read for records anchored by earlier
// deployments that wrote raw IPFS URIs.
const legacyURIScheme = "ipfs://"

type Store struct {
	cas storage.CAS
}

func New(cas storage.CAS) *Store {
	return &Store{cas: cas}
}

// PutDocument stores a credential metadata blob and returns its CID string.
func (s *Store) PutDocument(blob credential.MetadataBlob) (string, error) {
	raw, err := blob.MarshalBytes()
	if err != nil {
		return "", err
	}
	id, err := s.cas.Put(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GetDocument retrieves and decodes a credential metadata blob.
func (s *Store) GetDocument(cidStr string) (credential.MetadataBlob, error) {
	raw, err := s.getRaw(cidStr)
	if err != nil {
		return credential.MetadataBlob{}, err
	}
	return credential.UnmarshalMetadataBlob(raw)
}

// PutInstitution stores an institution metadata record.
func (s *Store) PutInstitution(meta credential.InstitutionMetadata) (string, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	id, err := s.cas.Put(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GetInstitution retrieves an institution metadata record.
func (s *Store) GetInstitution(cidStr string) (credential.InstitutionMetadata, error) {
	raw, err := s.getRaw(cidStr)
	if err != nil {
		return credential.InstitutionMetadata{}, err
	}
	var meta credential.InstitutionMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return credential.InstitutionMetadata{}, err
	}
	return meta, nil
}

func (s *Store) getRaw(cidStr string) ([]byte, error) {
	id, err := cid.Decode(cidStr)
	if err != nil || !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	return s.cas.Get(id)
}

// URIFor renders the ledger-anchored URI for a CID string.
func URIFor(cidStr string) string {
	return URIScheme + cidStr
}

// CIDFromURI extracts the CID from a ledger metadata URI.
//
// The CID is purely a retrieval key for descriptive metadata; it must never
// substitute for the fingerprint in any equality check.
func CIDFromURI(uri string) (string, error) {
	switch {
	case strings.HasPrefix(uri, URIScheme):
		uri = strings.TrimPrefix(uri, URIScheme)
	case strings.HasPrefix(uri, legacyURIScheme):
		uri = strings.TrimPrefix(uri, legacyURIScheme)
	}
	if uri == "" {
		return "", fmt.Errorf("metastore: empty metadata URI")
	}
	if _, err := cid.Decode(uri); err != nil {
		return "", fmt.Errorf("metastore: invalid metadata URI: %w", err)
	}
	return uri, nil
}
