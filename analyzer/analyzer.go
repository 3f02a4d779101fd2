// Package analyzer extracts credential fields from uploaded documents.
// The interface leaves room for a real extraction backend; Heuristic is
// the deterministic local fallback used when no backend is reachable.
package analyzer

import (
	"context"

	"certifychain.io/certify/credential"
)

// Analysis is the outcome of examining one document.
type Analysis struct {
	Fields credential.Fields

	// ConfidenceScore is in [0, 1]. Heuristic extraction never reports
	// above 0.5; a real backend can.
	ConfidenceScore float64

	IsFraudulent bool
	FraudReason  string
}

// Analyzer examines a document and proposes credential fields. The
// filename travels alongside the content because heuristic extraction
// leans on it.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, content []byte) (Analysis, error)
}
