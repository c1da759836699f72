package store

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/erwinbonsma/beaverfind/internal/beaver/executor"
)

// Ledger is an append-only record of every candidate grid this search has
// resolved, keyed by its blake2b signature. Separate from ResumeStore: the
// resume point is overwritten continuously, the ledger only ever grows.
type Ledger struct {
	db *leveldb.DB
}

// OpenLedger opens (creating if necessary) a goleveldb database at dir.
func OpenLedger(dir string) (*Ledger, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error { return l.db.Close() }

// Record appends the verdict for a resolved grid signature. A signature
// already present is overwritten, not duplicated: re-running a search
// against the same grid set is idempotent.
func (l *Ledger) Record(signature [32]byte, result executor.RunResult) error {
	return l.db.Put(signature[:], []byte(result.String()), nil)
}

// Lookup returns the recorded verdict string for a signature, and whether
// one was found.
func (l *Ledger) Lookup(signature [32]byte) (string, bool) {
	v, err := l.db.Get(signature[:], nil)
	if err != nil {
		return "", false
	}
	return string(v), true
}
