package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/ristretto/v2"
)

const keyPrefix = "perft/"

// Entry is one stored perft result.
type Entry struct {
	FEN     string            `json:"fen"`
	Depth   int               `json:"depth"`
	Nodes   uint64            `json:"nodes"`
	Divide  map[string]uint64 `json:"divide,omitempty"`
	Elapsed time.Duration     `json:"elapsed"`
	Stored  time.Time         `json:"stored"`
}

// Store wraps BadgerDB with an in-memory front tier.
type Store struct {
	db  *badger.DB
	mem *ristretto.Cache[uint64, *Entry]
}

// Open opens the store in dir. An empty dir uses GetDatabaseDir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store that keeps nothing on disk.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", opts.Dir, err)
	}

	mem, err := ristretto.NewCache(&ristretto.Config[uint64, *Entry]{
		NumCounters: 1 << 14,
		MaxCost:     1 << 12,
		BufferItems: 64,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: memory cache: %w", err)
	}

	return &Store{db: db, mem: mem}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mem.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Digest identifies a (FEN, depth) pair.
func Digest(fen string, depth int) uint64 {
	d := xxhash.New()
	d.WriteString(fen)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(depth))
	d.Write(b[:])
	return d.Sum64()
}

func dbKey(digest uint64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], digest)
	return key
}

// Get looks up the result for fen at depth. The second return is false when no
// result is stored.
func (s *Store) Get(fen string, depth int) (*Entry, bool, error) {
	digest := Digest(fen, depth)
	if e, ok := s.mem.Get(digest); ok && e.FEN == fen && e.Depth == depth {
		return e, true, nil
	}

	var e Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(digest))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: get %s depth %d: %w", fen, depth, err)
	}

	// A digest collision with another position counts as a miss.
	if e.FEN != fen || e.Depth != depth {
		log.Printf("storage: digest %016x holds %q depth %d", digest, e.FEN, e.Depth)
		return nil, false, nil
	}

	s.mem.Set(digest, &e, 1)
	return &e, true, nil
}

// Put stores e, replacing any previous result for the same FEN and depth.
func (s *Store) Put(e *Entry) error {
	if e.Stored.IsZero() {
		e.Stored = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	digest := Digest(e.FEN, e.Depth)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey(digest), data)
	})
	if err != nil {
		return fmt.Errorf("storage: put %s depth %d: %w", e.FEN, e.Depth, err)
	}

	s.mem.Set(digest, e, 1)
	s.mem.Wait()
	return nil
}

// Count returns the number of stored results.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
