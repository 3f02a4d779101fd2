package workflow

import (
	"context"
	"sort"
	"time"

	"certifychain.io/certify/analyzer"
	"certifychain.io/certify/credential"
	"certifychain.io/certify/crosscheck"
	"certifychain.io/certify/ledger"
	"certifychain.io/certify/metastore"
	"certifychain.io/certify/resilience"
)

// Outcome is the verdict of a verification run.
type Outcome string

const (
	// OutcomeVerified: anchored, not revoked, and when the cross-check
	// service answered, the document bytes matched exactly.
	OutcomeVerified Outcome = "Verified"

	// OutcomeRevoked: anchored but withdrawn by the issuer.
	OutcomeRevoked Outcome = "Revoked"

	// OutcomeUnverified: not on the ledger, or the cross-check similarity
	// fell below exact match. A normal negative answer, not an error.
	OutcomeUnverified Outcome = "Unverified"

	// OutcomeUnknown: the ledger could not be consulted on either
	// endpoint. The question is unanswered rather than answered "no".
	OutcomeUnknown Outcome = "Unknown"
)

// Verifier answers "is this document authentic" against the ledger.
type Verifier struct {
	Analyzer analyzer.Analyzer
	Store    *metastore.Store
	Ledger   ledger.Registry

	// CrossCheck is optional. When reachable it upgrades the check from
	// "declared-metadata match" to "byte-exact document match".
	CrossCheck        *crosscheck.Client
	CrossCheckTimeout time.Duration

	OnState func(State)
}

// Verdict is the assembled verification result. OnChain fields are
// authoritative; Metadata and Institution are best-effort enrichment and
// may be nil with Degraded set.
type Verdict struct {
	State       State
	Outcome     Outcome
	Fingerprint string
	Analysis    analyzer.Analysis
	OnChain     ledger.Verification

	Metadata    *credential.MetadataBlob
	Institution *credential.InstitutionMetadata

	// Similarity is the cross-check service's score, empty when the
	// service did not answer.
	Similarity string

	// LocalFingerprint is true when the fingerprint came from extracted
	// fields alone, narrowing the check to declared metadata.
	LocalFingerprint bool

	// Degraded is true when any best-effort stage (cross-check, metadata
	// enrichment, ledger reads) fell back or was skipped.
	Degraded bool
}

func (v *Verifier) setState(s State) {
	if v.OnState != nil {
		v.OnState(s)
	}
}

func (v *Verifier) crossCheckTimeout() time.Duration {
	if v.CrossCheckTimeout > 0 {
		return v.CrossCheckTimeout
	}
	return DefaultCrossCheckTimeout
}

// Verify runs the verification machine over one document.
func (v *Verifier) Verify(ctx context.Context, filename string, content []byte) (Verdict, error) {
	verdict := Verdict{State: StateIdle}

	v.setState(StateAnalyzing)
	analysis, err := v.Analyzer.Analyze(ctx, filename, content)
	if err != nil {
		verdict.State = StateError
		return verdict, failed(ReasonExtractionFailed, err)
	}
	verdict.Analysis = analysis

	report := v.crossCheckReport(ctx, filename, content)
	if report != nil {
		verdict.Fingerprint = report.Hash
		verdict.Similarity = report.Similarity
	} else {
		verdict.Fingerprint = credential.FingerprintFields(analysis.Fields)
		verdict.LocalFingerprint = true
		verdict.Degraded = true
	}
	v.setState(StateReported)

	v.setState(StateVerifying)
	onChain, err := v.Ledger.VerifyDocument(ctx, verdict.Fingerprint)
	if err != nil {
		if ledger.IsUnreachable(err) {
			// Reads degrade to "unknown" rather than failing the session.
			verdict.State = StateResult
			verdict.Outcome = OutcomeUnknown
			verdict.Degraded = true
			v.setState(StateResult)
			return verdict, nil
		}
		verdict.State = StateError
		return verdict, err
	}
	verdict.OnChain = onChain

	switch {
	case !onChain.Exists():
		verdict.Outcome = OutcomeUnverified
	case report != nil && !report.ExactMatch():
		// Anchored, but the submitted bytes are not the registered ones.
		verdict.Outcome = OutcomeUnverified
	case onChain.Revoked:
		verdict.Outcome = OutcomeRevoked
	default:
		verdict.Outcome = OutcomeVerified
	}

	if onChain.Exists() {
		v.enrich(ctx, &verdict)
	}

	verdict.State = StateResult
	v.setState(StateResult)
	return verdict, nil
}

// crossCheckReport asks the external service for its verdict, with nil
// meaning "service did not answer; use local hashing".
func (v *Verifier) crossCheckReport(ctx context.Context, filename string, content []byte) *crosscheck.Report {
	if v.CrossCheck == nil {
		return nil
	}
	res, err := resilience.CallWithFallback(ctx, v.crossCheckTimeout(),
		func(ctx context.Context) (*crosscheck.Report, error) {
			rep, err := v.CrossCheck.Check(ctx, filename, content)
			if err != nil {
				return nil, err
			}
			return &rep, nil
		},
		func(ctx context.Context) (*crosscheck.Report, error) {
			return nil, nil
		},
	)
	if err != nil {
		return nil
	}
	return res.Value
}

// enrich resolves metadata and institution records for display. Failure
// here never fails the verdict; ledger truth stands on its own.
func (v *Verifier) enrich(ctx context.Context, verdict *Verdict) {
	if v.Store == nil {
		verdict.Degraded = true
		return
	}

	if cidStr, err := metastore.CIDFromURI(verdict.OnChain.MetadataURI); err == nil {
		if blob, err := v.Store.GetDocument(cidStr); err == nil {
			verdict.Metadata = &blob
		} else {
			verdict.Degraded = true
		}
	} else {
		verdict.Degraded = true
	}

	inst, _, err := v.Ledger.InstitutionDocuments(ctx, verdict.OnChain.Issuer)
	if err != nil {
		verdict.Degraded = true
		return
	}
	cidStr, err := metastore.CIDFromURI(inst.MetadataURI)
	if err != nil {
		verdict.Degraded = true
		return
	}
	meta, err := v.Store.GetInstitution(cidStr)
	if err != nil {
		verdict.Degraded = true
		return
	}
	verdict.Institution = &meta
}

// ListAttestations returns every anchored document, newest first. The
// contract returns them unordered; presentation order is imposed here.
func ListAttestations(ctx context.Context, reg ledger.Registry) ([]ledger.Document, error) {
	docs, err := reg.ListDocuments(ctx)
	if err != nil {
		if ledger.IsUnreachable(err) {
			return nil, failed(ReasonLedgerUnreachable, err)
		}
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].IssuedAt.After(docs[j].IssuedAt)
	})
	return docs, nil
}
