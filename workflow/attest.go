// Package workflow drives the attestation and verification state
// machines. Each workflow instance serves one session; state is an
// explicit value threaded through the run, never ambient.
package workflow

import (
	"context"
	"time"

	"certifychain.io/certify/analyzer"
	"certifychain.io/certify/credential"
	"certifychain.io/certify/crosscheck"
	"certifychain.io/certify/ledger"
	"certifychain.io/certify/metastore"
	"certifychain.io/certify/resilience"
	"certifychain.io/certify/storage"
)

// State names one position in a workflow state machine.
type State string

const (
	StateIdle       State = "Idle"
	StateExtracting State = "Extracting"
	StateExtracted  State = "Extracted"
	StateHashing    State = "Hashing"
	StateAttesting  State = "Attesting"
	StateComplete   State = "Complete"
	StateError      State = "Error"

	StateAnalyzing State = "Analyzing"
	StateReported  State = "Reported"
	StateVerifying State = "Verifying"
	StateResult    State = "Result"
)

// DefaultCrossCheckTimeout bounds calls to the external fingerprint
// service before falling back to local hashing.
const DefaultCrossCheckTimeout = 6 * time.Second

// Attester anchors credentials: extract, fingerprint, store metadata,
// issue on the ledger.
type Attester struct {
	Analyzer analyzer.Analyzer
	Store    *metastore.Store
	Ledger   ledger.Registry

	// CrossCheck is optional. When set, its fingerprint is preferred over
	// the locally computed one; when unreachable the workflow degrades to
	// local hashing and says so in the result.
	CrossCheck        *crosscheck.Client
	CrossCheckTimeout time.Duration

	// OnState observes transitions when non-nil. For progress display.
	OnState func(State)
}

// AttestResult is the terminal outcome of one attestation run.
type AttestResult struct {
	State       State
	Analysis    analyzer.Analysis
	Fields      credential.Fields
	Fingerprint string
	MetadataURI string
	TxHash      string

	// LocalFingerprint is true when the cross-check service did not
	// contribute and the fingerprint came from local hashing alone.
	LocalFingerprint bool
}

func (a *Attester) setState(s State) {
	if a.OnState != nil {
		a.OnState(s)
	}
}

func (a *Attester) crossCheckTimeout() time.Duration {
	if a.CrossCheckTimeout > 0 {
		return a.CrossCheckTimeout
	}
	return DefaultCrossCheckTimeout
}

// Attest runs the full pipeline for one document. Overrides supplied by
// the caller replace the corresponding extracted fields, so operator
// corrections always win over heuristics.
func (a *Attester) Attest(ctx context.Context, filename string, content []byte, overrides credential.Fields) (AttestResult, error) {
	res := AttestResult{State: StateIdle}

	a.setState(StateExtracting)
	analysis, err := a.Analyzer.Analyze(ctx, filename, content)
	if err != nil {
		res.State = StateError
		return res, failed(ReasonExtractionFailed, err)
	}
	res.Analysis = analysis
	res.Fields = mergeFields(analysis.Fields, overrides)
	a.setState(StateExtracted)

	if analysis.IsFraudulent {
		res.State = StateError
		return res, &Error{Reason: ReasonIntegrityRejected, Detail: analysis.FraudReason}
	}

	a.setState(StateHashing)
	res.Fingerprint, res.LocalFingerprint = a.resolveFingerprint(ctx, filename, content, res.Fields)

	blob := credential.NewMetadataBlob(res.Fields, res.Fingerprint)
	id, err := a.Store.PutDocument(blob)
	if err != nil {
		res.State = StateError
		return res, failed(storeReason(err), err)
	}
	res.MetadataURI = metastore.URIFor(id)

	a.setState(StateAttesting)
	rcpt, err := a.Ledger.IssueDocument(ctx, res.Fingerprint, res.MetadataURI)
	if err != nil {
		res.State = StateError
		return res, ledgerWriteError(err)
	}
	res.TxHash = rcpt.TxHash

	res.State = StateComplete
	a.setState(StateComplete)
	return res, nil
}

// resolveFingerprint prefers the cross-check service's fingerprint and
// falls back to hashing the canonicalized fields locally. The local path
// cannot fail, so the workflow always emerges with a fingerprint.
func (a *Attester) resolveFingerprint(ctx context.Context, filename string, content []byte, fields credential.Fields) (fp string, local bool) {
	localFP := credential.FingerprintFields(fields)
	if a.CrossCheck == nil {
		return localFP, true
	}

	res, err := resilience.CallWithFallback(ctx, a.crossCheckTimeout(),
		func(ctx context.Context) (string, error) {
			reg, err := a.CrossCheck.Register(ctx, filename, content)
			if err != nil {
				return "", err
			}
			return reg.Hash, nil
		},
		func(ctx context.Context) (string, error) {
			return localFP, nil
		},
	)
	if err != nil {
		return localFP, true
	}
	return res.Value, res.UsedFallback
}

// Revoke withdraws an attestation. The prior state is checked first so
// a repeat revocation is reported as ErrAlreadyRevoked instead of
// burning a ledger write.
func (a *Attester) Revoke(ctx context.Context, fingerprint string) (ledger.TxReceipt, error) {
	v, err := a.Ledger.VerifyDocument(ctx, fingerprint)
	if err != nil {
		if ledger.IsUnreachable(err) {
			return ledger.TxReceipt{}, failed(ReasonLedgerUnreachable, err)
		}
		return ledger.TxReceipt{}, err
	}
	// Revoked documents are not Valid, so the revoked check comes first.
	if v.Revoked {
		return ledger.TxReceipt{}, ErrAlreadyRevoked
	}
	if !v.Valid {
		return ledger.TxReceipt{}, ErrNotAnchored
	}

	rcpt, err := a.Ledger.RevokeDocument(ctx, fingerprint)
	if err != nil {
		return ledger.TxReceipt{}, ledgerWriteError(err)
	}
	return rcpt, nil
}

func mergeFields(extracted, overrides credential.Fields) credential.Fields {
	out := extracted
	if overrides.RecipientName != "" {
		out.RecipientName = overrides.RecipientName
	}
	if overrides.RecipientID != "" {
		out.RecipientID = overrides.RecipientID
	}
	if overrides.DocumentType != "" {
		out.DocumentType = overrides.DocumentType
	}
	if overrides.RecipientEmail != "" {
		out.RecipientEmail = overrides.RecipientEmail
	}
	if overrides.RecipientWallet != "" {
		out.RecipientWallet = overrides.RecipientWallet
	}
	if overrides.DocumentID != "" {
		out.DocumentID = overrides.DocumentID
	}
	if overrides.Description != "" {
		out.Description = overrides.Description
	}
	return out
}

func storeReason(err error) Reason {
	switch {
	case storage.IsNotFound(err):
		return ReasonStoreNotFound
	case storage.IsTimeout(err):
		return ReasonStoreTimeout
	}
	return ReasonStoreFailed
}

// ledgerWriteError classifies a failed ledger write. Reverts carry the
// contract's reason verbatim and are never retried.
func ledgerWriteError(err error) error {
	if ledger.IsUnreachable(err) {
		return failed(ReasonLedgerUnreachable, err)
	}
	return &Error{Reason: ReasonLedgerReverted, Detail: err.Error(), Err: err}
}
