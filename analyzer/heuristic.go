package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"

	"certifychain.io/certify/credential"
)

// Heuristic extracts fields from the filename alone. It is fully
// deterministic: the same filename and content always produce the same
// analysis, so fingerprints derived from it are reproducible.
type Heuristic struct{}

var _ Analyzer = Heuristic{}

// Document type keywords, checked in order. First hit wins.
var typeKeywords = []struct {
	keyword string
	docType string
}{
	{"transcript", "Academic Transcript"},
	{"diploma", "Diploma"},
	{"degree", "Degree"},
	{"phd", "Doctor of Philosophy"},
	{"master", "Master's Degree"},
	{"bachelor", "Bachelor's Degree"},
	{"certificate", "Certificate"},
	{"cert", "Certificate"},
}

func (Heuristic) Analyze(ctx context.Context, filename string, content []byte) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	if len(content) == 0 {
		return Analysis{}, errors.New("analyzer: empty document")
	}

	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	tokens := splitTokens(stem)

	fields := credential.Fields{
		DocumentType:  detectType(tokens),
		RecipientName: detectName(tokens),
		// A stable pseudo-ID from the content keeps repeated runs over the
		// same file consistent without inventing randomness.
		DocumentID: "DOC-" + shortDigest(content),
	}

	confidence := 0.2
	if fields.DocumentType != "" {
		confidence += 0.15
	}
	if fields.RecipientName != "" {
		confidence += 0.15
	}

	return Analysis{Fields: fields, ConfidenceScore: confidence}, nil
}

func splitTokens(stem string) []string {
	return strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
}

func detectType(tokens []string) string {
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		for _, kw := range typeKeywords {
			if strings.Contains(lower, kw.keyword) {
				return kw.docType
			}
		}
	}
	return ""
}

// detectName treats consecutive capitalized alphabetic tokens as a name.
func detectName(tokens []string) string {
	var name []string
	for _, tok := range tokens {
		if isNameToken(tok) {
			name = append(name, tok)
			continue
		}
		if len(name) > 0 {
			break
		}
	}
	if len(name) < 2 {
		return ""
	}
	return strings.Join(name, " ")
}

func isNameToken(tok string) bool {
	if len(tok) < 2 || tok[0] < 'A' || tok[0] > 'Z' {
		return false
	}
	for _, r := range tok[1:] {
		if (r < 'a' || r > 'z') && r != '\'' {
			return false
		}
	}
	// Keywords like "Degree" look like name tokens; exclude them.
	lower := strings.ToLower(tok)
	for _, kw := range typeKeywords {
		if lower == kw.keyword {
			return false
		}
	}
	return true
}

func shortDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return strings.ToUpper(hex.EncodeToString(sum[:4]))
}
