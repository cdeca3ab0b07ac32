// Package corpusdb persists a fuzzing corpus in a bbolt database.
//
// Entries are stored under time-ordered UUIDv7 keys, so [Store.List] and
// [Store.Corpus] return them in insertion order.
package corpusdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/mod/semver"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

// FormatVersion is written into new stores. Stores whose major version
// differs are rejected with [ErrIncompatible].
const FormatVersion = "v1.0.0"

var (
	bucketEntries = []byte("entries")
	bucketMeta    = []byte("meta")
	bucketInfo    = []byte("info")

	keyFormatVersion = []byte("format_version")
)

var (
	ErrNotFound     = errors.New("corpusdb: entry not found")
	ErrEmpty        = errors.New("corpusdb: corpus is empty")
	ErrIncompatible = errors.New("corpusdb: incompatible format version")
	ErrTooLarge     = errors.New("corpusdb: entry too large")
)

// EntryMeta describes one stored input.
type EntryMeta struct {
	ID     string    `msgpack:"id"`
	Source string    `msgpack:"source"`
	Size   uint32    `msgpack:"size"`
	Added  time.Time `msgpack:"added"`
}

// Store is a corpus database. It is safe for concurrent use; bbolt
// serializes writers.
type Store struct {
	db   *bolt.DB
	path string
}

// Open opens or creates the store at path, creating parent directories.
func Open(path string) (*Store, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return nil, fmt.Errorf("create corpus dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	err = db.Update(initBuckets)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return &Store{db: db, path: path}, nil
}

func initBuckets(tx *bolt.Tx) error {
	for _, name := range [][]byte{bucketEntries, bucketMeta, bucketInfo} {
		_, err := tx.CreateBucketIfNotExists(name)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", name, err)
		}
	}

	info := tx.Bucket(bucketInfo)

	stored := info.Get(keyFormatVersion)
	if stored == nil {
		return info.Put(keyFormatVersion, []byte(FormatVersion))
	}

	v := string(stored)
	if !semver.IsValid(v) || semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: store has %q, want %s.x.x", ErrIncompatible, v, semver.Major(FormatVersion))
	}

	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores data and returns its metadata.
func (s *Store) Add(data []byte, source string) (EntryMeta, error) {
	var meta EntryMeta

	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error

		meta, err = addTx(tx, data, source)

		return err
	})
	if err != nil {
		return EntryMeta{}, err
	}

	return meta, nil
}

func addTx(tx *bolt.Tx, data []byte, source string) (EntryMeta, error) {
	size, err := safecast.Conv[uint32](len(data))
	if err != nil {
		return EntryMeta{}, fmt.Errorf("%w: %s: %w", ErrTooLarge, source, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return EntryMeta{}, fmt.Errorf("generate id: %w", err)
	}

	meta := EntryMeta{
		ID:     id.String(),
		Source: source,
		Size:   size,
		Added:  time.Now().UTC(),
	}

	raw, err := msgpack.Marshal(&meta)
	if err != nil {
		return EntryMeta{}, fmt.Errorf("encode meta: %w", err)
	}

	key := []byte(meta.ID)

	err = tx.Bucket(bucketEntries).Put(key, data)
	if err != nil {
		return EntryMeta{}, err
	}

	err = tx.Bucket(bucketMeta).Put(key, raw)
	if err != nil {
		return EntryMeta{}, err
	}

	return meta, nil
}

// Get returns a copy of the stored bytes and their metadata.
func (s *Store) Get(id string) ([]byte, EntryMeta, error) {
	var (
		data []byte
		meta EntryMeta
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		key := []byte(id)

		// Entries may be empty, so existence is decided by the meta bucket.
		raw := tx.Bucket(bucketMeta).Get(key)
		if raw == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		// Copy the value since it's only valid during the transaction
		data = append([]byte{}, tx.Bucket(bucketEntries).Get(key)...)

		return decodeMeta(raw, &meta)
	})
	if err != nil {
		return nil, EntryMeta{}, err
	}

	return data, meta, nil
}

// Remove deletes an entry.
func (s *Store) Remove(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		key := []byte(id)

		meta := tx.Bucket(bucketMeta)
		if meta.Get(key) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		err := tx.Bucket(bucketEntries).Delete(key)
		if err != nil {
			return err
		}

		return meta.Delete(key)
	})
}

// List returns metadata for every entry in insertion order.
func (s *Store) List() ([]EntryMeta, error) {
	var out []EntryMeta

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).ForEach(func(_, v []byte) error {
			var meta EntryMeta

			err := decodeMeta(v, &meta)
			if err != nil {
				return err
			}

			out = append(out, meta)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Len returns the number of entries.
func (s *Store) Len() (int, error) {
	var n int

	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketMeta).Stats().KeyN

		return nil
	})

	return n, err
}

// Import adds every regular file directly inside dir in one transaction.
// Subdirectories and symlinks are skipped.
func (s *Store) Import(dir string) ([]EntryMeta, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read import dir: %w", err)
	}

	var added []EntryMeta

	err = s.db.Update(func(tx *bolt.Tx) error {
		for _, de := range dirEntries {
			if !de.Type().IsRegular() {
				continue
			}

			path := filepath.Join(dir, de.Name())

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}

			meta, err := addTx(tx, data, path)
			if err != nil {
				return err
			}

			added = append(added, meta)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return added, nil
}

// Corpus loads every entry into an immutable [bytemut.Corpus].
//
// Returns [ErrEmpty] when the store has no entries.
func (s *Store) Corpus() (*bytemut.Corpus, error) {
	var entries [][]byte

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).ForEach(func(_, v []byte) error {
			// NewCorpus copies, but v is only valid inside the transaction.
			entries = append(entries, append([]byte(nil), v...))

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	return bytemut.NewCorpus(entries)
}

func decodeMeta(raw []byte, meta *EntryMeta) error {
	if raw == nil {
		return fmt.Errorf("%w: missing metadata", ErrNotFound)
	}

	err := msgpack.Unmarshal(raw, meta)
	if err != nil {
		return fmt.Errorf("decode meta: %w", err)
	}

	return nil
}
