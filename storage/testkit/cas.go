// Package testkit provides the conformance suite every CAS backend must
// pass, so that metadata blobs written through one adapter are retrievable
// through any other.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"certifychain.io/certify/storage"
)

// NewCAS constructs a fresh, empty store isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte(`{"recipient":{"fullName":"Jane Smith"},"document":{"hash":"0xabc"}}`)

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		wantID, err := storage.SumCID(want)
		if err != nil {
			t.Fatalf("SumCID: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1): %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2): %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("DistinctContentDistinctCID", func(t *testing.T) {
		cas := newCAS(t)
		id1, err := cas.Put([]byte("blob one"))
		if err != nil {
			t.Fatalf("Put(1): %v", err)
		}
		id2, err := cas.Put([]byte("blob two"))
		if err != nil {
			t.Fatalf("Put(2): %v", err)
		}
		if id1 == id2 {
			t.Fatalf("different content produced the same CID")
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id, err := storage.SumCID(b)
		if err != nil {
			t.Fatalf("SumCID: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has true for missing CID")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got %v want ErrNotFound", err)
		}

		if _, err := cas.Put(b); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})
}
