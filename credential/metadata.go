package credential

import (
	"encoding/json"
	"errors"
)

// MetadataBlob is the off-chain JSON record stored in the content-addressed
// network at issuance time, immutable thereafter. Its shape is part of the
// external interface:
//
//	{recipient:{fullName,email,id,walletAddress},
//	 document:{type,id,hash,description}}
//
// Document.Hash carries the fingerprint so a retrieved blob can be checked
// against the on-chain digest. The blob's CID is a retrieval key only; it
// never substitutes for the fingerprint in any equality check.
type MetadataBlob struct {
	Recipient RecipientMetadata `json:"recipient"`
	Document  DocumentMetadata  `json:"document"`
}

type RecipientMetadata struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress"`
}

type DocumentMetadata struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Hash        string `json:"hash"`
	Description string `json:"description"`
}

// InstitutionMetadata is the off-chain record behind an institution's
// on-chain metadata URI.
type InstitutionMetadata struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// NewMetadataBlob assembles the blob for a credential and its fingerprint.
func NewMetadataBlob(f Fields, fingerprint string) MetadataBlob {
	return MetadataBlob{
		Recipient: RecipientMetadata{
			FullName:      f.RecipientName,
			Email:         f.RecipientEmail,
			ID:            f.RecipientID,
			WalletAddress: f.RecipientWallet,
		},
		Document: DocumentMetadata{
			Type:        f.DocumentType,
			ID:          f.DocumentID,
			Hash:        fingerprint,
			Description: f.Description,
		},
	}
}

// Fields reconstructs the descriptive fields from a retrieved blob.
func (b MetadataBlob) Fields() Fields {
	return Fields{
		RecipientName:   b.Recipient.FullName,
		RecipientID:     b.Recipient.ID,
		DocumentType:    b.Document.Type,
		RecipientEmail:  b.Recipient.Email,
		RecipientWallet: b.Recipient.WalletAddress,
		DocumentID:      b.Document.ID,
		Description:     b.Document.Description,
	}
}

func (b MetadataBlob) MarshalBytes() ([]byte, error) {
	return json.Marshal(b)
}

// UnmarshalMetadataBlob decodes a stored blob, rejecting records that lack
// the fingerprint linkage.
func UnmarshalMetadataBlob(data []byte) (MetadataBlob, error) {
	var b MetadataBlob
	if err := json.Unmarshal(data, &b); err != nil {
		return MetadataBlob{}, err
	}
	if b.Document.Hash == "" {
		return MetadataBlob{}, errors.New("credential: metadata blob missing document hash")
	}
	return b, nil
}
