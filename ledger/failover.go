package ledger

import "context"

// Failover layers two registry endpoints. Reads that fail with
// ErrUnreachable on the primary are retried exactly once on the
// alternate; writes go to the primary only, since a write that timed out
// may still have landed and a blind retry could double-issue.
type Failover struct {
	Primary   Registry
	Alternate Registry
}

var _ Registry = (*Failover)(nil)

func (f *Failover) read(ctx context.Context, op func(Registry) error) error {
	err := op(f.Primary)
	if err == nil || f.Alternate == nil || !IsUnreachable(err) {
		return err
	}
	if ctx.Err() != nil {
		return err
	}
	return op(f.Alternate)
}

func (f *Failover) IssueDocument(ctx context.Context, docHash, metadataURI string) (TxReceipt, error) {
	return f.Primary.IssueDocument(ctx, docHash, metadataURI)
}

func (f *Failover) RevokeDocument(ctx context.Context, docHash string) (TxReceipt, error) {
	return f.Primary.RevokeDocument(ctx, docHash)
}

func (f *Failover) AddInstitution(ctx context.Context, address, metadataURI string) (TxReceipt, error) {
	return f.Primary.AddInstitution(ctx, address, metadataURI)
}

func (f *Failover) RemoveInstitution(ctx context.Context, address string) (TxReceipt, error) {
	return f.Primary.RemoveInstitution(ctx, address)
}

func (f *Failover) VerifyDocument(ctx context.Context, docHash string) (Verification, error) {
	var v Verification
	err := f.read(ctx, func(r Registry) error {
		var opErr error
		v, opErr = r.VerifyDocument(ctx, docHash)
		return opErr
	})
	return v, err
}

func (f *Failover) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := f.read(ctx, func(r Registry) error {
		var opErr error
		docs, opErr = r.ListDocuments(ctx)
		return opErr
	})
	return docs, err
}

func (f *Failover) InstitutionDocuments(ctx context.Context, address string) (Institution, []Document, error) {
	var inst Institution
	var docs []Document
	err := f.read(ctx, func(r Registry) error {
		var opErr error
		inst, docs, opErr = r.InstitutionDocuments(ctx, address)
		return opErr
	})
	return inst, docs, err
}
