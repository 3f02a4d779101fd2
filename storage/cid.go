package storage

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// SumCID derives the CIDv1 (raw multicodec + sha2-256 multihash) for data.
// Every adapter in this module keys objects by this derivation, so a blob
// written through one backend is retrievable through any other.
func SumCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// SumCIDString is SumCID rendered as the canonical string form.
func SumCIDString(data []byte) string {
	id, err := SumCID(data)
	if err != nil {
		// multihash.Sum with SHA2_256 and default length cannot fail.
		return ""
	}
	return id.String()
}
