package storage

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// MultiCAS reads across multiple backends in a deterministic, fixed order.
//
// Callers supply the order; the first backend is authoritative for writes.
// Reads fall back to the next backend on ErrNotFound or ErrTimeout, so a
// blob pinned on an unreachable network node can still be served from a
// local replica. Any other error aborts the scan.
type MultiCAS struct {
	Backends []CAS
}

var _ CAS = MultiCAS{}

func (m MultiCAS) Put(data []byte) (cid.Cid, error) {
	if len(m.Backends) == 0 {
		return cid.Undef, errors.New("storage: MultiCAS has no backends")
	}
	return m.Backends[0].Put(data)
}

func (m MultiCAS) Get(id cid.Cid) ([]byte, error) {
	var lastSkippable error
	for _, cas := range m.Backends {
		b, err := cas.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) || IsTimeout(err) {
			lastSkippable = err
			continue
		}
		return nil, err
	}
	if lastSkippable != nil {
		return nil, lastSkippable
	}
	return nil, ErrNotFound
}

func (m MultiCAS) Has(id cid.Cid) bool {
	for _, cas := range m.Backends {
		if cas.Has(id) {
			return true
		}
	}
	return false
}
