// Package store holds the two persistence surfaces the specification
// explicitly allows around the (otherwise stateless) hang-analysis core:
// a resume point for a long-running enumeration, and an append-only
// ledger of resolved verdicts.
package store

import (
	"encoding/binary"
	"errors"

	"github.com/cockroachdb/pebble"
)

var resumeKey = []byte("resume/last-coordinate")

// ErrNoResumePoint is returned by ResumePoint when the store holds no
// prior position.
var ErrNoResumePoint = errors.New("store: no resume point recorded")

// ResumeStore persists the ordinal of the next enumeration candidate to
// try, so a future run can skip every candidate before it. This is the
// one piece of state the specification explicitly allows to survive a
// process restart.
type ResumeStore struct {
	db *pebble.DB
}

// OpenResumeStore opens (creating if necessary) a pebble database at dir.
func OpenResumeStore(dir string) (*ResumeStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &ResumeStore{db: db}, nil
}

// Close releases the underlying database.
func (s *ResumeStore) Close() error { return s.db.Close() }

// SaveResumePoint records the ordinal of the next enumeration candidate to
// try.
func (s *ResumeStore) SaveResumePoint(ordinal uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], ordinal)
	return s.db.Set(resumeKey, buf[:], pebble.Sync)
}

// ResumePoint returns the last saved ordinal, or ErrNoResumePoint if none
// was ever recorded.
func (s *ResumeStore) ResumePoint() (uint64, error) {
	v, closer, err := s.db.Get(resumeKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, ErrNoResumePoint
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	return binary.BigEndian.Uint64(v), nil
}
