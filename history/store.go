// Package history implements persistent backends for the line editor's
// command history, independent of any one Session so multiple processes
// can share it.
package history

import (
	"encoding/binary"
	"sync"

	bolt "go.etcd.io/bbolt"
)

// Store is a persistent, sequence-numbered append log of history entries.
type Store interface {
	// Append records cmd as the newest entry and returns its sequence
	// number.
	Append(cmd string) (int, error)
	// Recent returns up to limit entries, most recent first. limit <= 0
	// means unbounded.
	Recent(limit int) ([]string, error)
	// Close releases any resources held by the store.
	Close() error
}

// memoryStore is an in-process Store, useful in tests and for embedders
// that don't want a file-backed history.
type memoryStore struct {
	mu      sync.Mutex
	entries []string
}

// NewMemoryStore returns a Store backed by an in-memory slice.
func NewMemoryStore() Store { return &memoryStore{} }

func (m *memoryStore) Append(cmd string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, cmd)
	return len(m.entries), nil
}

func (m *memoryStore) Recent(limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = m.entries[len(m.entries)-1-i]
	}
	return out, nil
}

func (m *memoryStore) Close() error { return nil }

var bucketCmd = []byte("cmd")

// boltStore is a Store backed by a bbolt database, one bucket keyed by an
// auto-incrementing big-endian sequence number.
type boltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if necessary) a bbolt-backed Store at
// path.
func OpenBoltStore(path string) (Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCmd)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func (s *boltStore) Append(cmd string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCmd)
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(cmd))
	})
	return int(seq), err
}

func (s *boltStore) Recent(limit int) ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketCmd).Cursor()
		n := 0
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			out = append(out, string(v))
			n++
			if limit > 0 && n >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (s *boltStore) Close() error { return s.db.Close() }
