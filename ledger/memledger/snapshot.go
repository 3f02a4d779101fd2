package memledger

import (
	"encoding/json"
	"os"
	"time"

	"certifychain.io/certify/ledger"
)

// snapshot is the on-disk form of the registry state.
type snapshot struct {
	Owner        string                `json:"owner"`
	TxSeq        uint64                `json:"txSeq"`
	Institutions []ledger.Institution  `json:"institutions"`
	Documents    []ledger.Document     `json:"documents"`
	SavedAt      time.Time             `json:"savedAt"`
}

// Save writes the registry state to path as JSON, via a temp file rename
// so a crash mid-write never leaves a torn snapshot.
func (c *Contract) Save(path string) error {
	c.mu.Lock()
	snap := snapshot{
		Owner:   c.owner,
		TxSeq:   c.txSeq,
		SavedAt: c.now().UTC(),
	}
	for _, h := range c.order {
		snap.Documents = append(snap.Documents, *c.documents[h])
	}
	for _, inst := range c.institutions {
		snap.Institutions = append(snap.Institutions, inst)
	}
	c.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load restores a registry from a snapshot written by Save.
func Load(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	c := New(snap.Owner)
	c.txSeq = snap.TxSeq
	for _, inst := range snap.Institutions {
		c.institutions[normalize(inst.Address)] = inst
	}
	for i := range snap.Documents {
		doc := snap.Documents[i]
		c.documents[doc.DocHash] = &doc
		c.order = append(c.order, doc.DocHash)
		c.byIssuer[doc.Issuer] = append(c.byIssuer[doc.Issuer], doc.DocHash)
	}
	return c, nil
}
