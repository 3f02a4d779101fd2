package grpcledger

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"certifychain.io/certify/identity"
	"certifychain.io/certify/ledger"
)

// Write requests are authenticated by a detached signature over a
// canonical payload. The payload binds the method name and its arguments
// so a captured signature cannot be replayed against a different call.
const signDomain = "certify-ledger/v1"

func signPayload(method string, args ...string) []byte {
	parts := append([]string{signDomain, method}, args...)
	return []byte(strings.Join(parts, "\n"))
}

func signedRequest(signer identity.Signer, method string, fields map[string]*structpb.Value, args ...string) (*structpb.Struct, error) {
	sig, err := signer.Sign(signPayload(method, args...))
	if err != nil {
		return nil, err
	}
	fields["sigAlg"] = structpb.NewStringValue(sig.Alg)
	fields["sigPublicKey"] = structpb.NewStringValue(hex.EncodeToString(sig.PublicKey))
	fields["sig"] = structpb.NewStringValue(hex.EncodeToString(sig.Sig))
	return &structpb.Struct{Fields: fields}, nil
}

// authenticate verifies the signature embedded in a write request and
// returns the derived caller address.
func authenticate(req *structpb.Struct, method string, args ...string) (string, error) {
	pub, err := hex.DecodeString(getString(req, "sigPublicKey"))
	if err != nil {
		return "", fmt.Errorf("malformed public key: %w", err)
	}
	raw, err := hex.DecodeString(getString(req, "sig"))
	if err != nil {
		return "", fmt.Errorf("malformed signature: %w", err)
	}
	sig := identity.Signature{
		Alg:       getString(req, "sigAlg"),
		PublicKey: pub,
		Sig:       raw,
	}
	return identity.Verify(signPayload(method, args...), sig)
}

func getString(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func getBool(s *structpb.Struct, key string) bool {
	if s == nil {
		return false
	}
	return s.GetFields()[key].GetBoolValue()
}

func documentStruct(d ledger.Document) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"docHash":     structpb.NewStringValue(d.DocHash),
		"issuer":      structpb.NewStringValue(d.Issuer),
		"issuedAt":    structpb.NewStringValue(d.IssuedAt.UTC().Format(time.RFC3339Nano)),
		"revoked":     structpb.NewBoolValue(d.Revoked),
		"metadataUri": structpb.NewStringValue(d.MetadataURI),
	}})
}

func documentFromStruct(s *structpb.Struct) (ledger.Document, error) {
	issuedAt, err := parseTime(getString(s, "issuedAt"))
	if err != nil {
		return ledger.Document{}, err
	}
	return ledger.Document{
		DocHash:     getString(s, "docHash"),
		Issuer:      getString(s, "issuer"),
		IssuedAt:    issuedAt,
		Revoked:     getBool(s, "revoked"),
		MetadataURI: getString(s, "metadataUri"),
	}, nil
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, v)
}
