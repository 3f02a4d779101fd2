// Package storage defines the content-addressed store contract the
// credential protocol writes metadata blobs through, plus the shared error
// taxonomy and multi-backend fallback used by every adapter.
package storage

import "github.com/ipfs/go-cid"

// CAS is the minimal content-addressable storage surface.
//
// Contract:
//   - Put MUST be idempotent: identical content yields the identical CID.
//   - Stored objects MUST be immutable; a new write yields a new CID.
//   - CIDs MUST be derived from the bytes written.
//   - Get MUST return ErrNotFound when the CID is unknown, and ErrTimeout
//     when the backing network does not answer within its bounded interval.
type CAS interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
