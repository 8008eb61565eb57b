package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	journalBucket    = "journal"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. Keys are the bucket sequence
// (big-endian, so cursor order is insertion order); values are an 8-byte
// expiry followed by the JSON entry.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(journalBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Append journals entry; a zero RecordedAt is set to now.
func (b *boltStore) Append(entry Entry) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = now.UTC()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		value := make([]byte, expiryValueBytes, expiryValueBytes+len(payload))
		binary.BigEndian.PutUint64(value, uint64(now.Add(b.entryTTL).Unix()))
		value = append(value, payload...)
		return bucket.Put(key, value)
	})
}

// Recent walks the journal from the newest entry backwards, skipping expired
// entries. Expiry is not monotonic in sequence order when the TTL changed
// between runs, so the walk never stops early.
func (b *boltStore) Recent(limit int) ([]Entry, error) {
	if b == nil || b.db == nil || limit <= 0 {
		return nil, nil
	}

	now := b.now()
	var out []Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil && len(out) < limit; k, v = cursor.Prev() {
			if expiry, ok := decodeExpiry(v); !ok || !expiry.After(now) {
				continue
			}
			var entry Entry
			if err := json.Unmarshal(v[expiryValueBytes:], &entry); err != nil {
				return fmt.Errorf("decode journal entry: %w", err)
			}
			out = append(out, entry)
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired sweeps expired entries at most once per cleanup interval.
// The sweep stops at the first live entry; expired entries behind it (left
// after a TTL change) stay on disk until they reach the head and are
// skipped by Recent meanwhile.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}
	if !b.cleanupMu.TryLock() {
		return nil
	}
	defer b.cleanupMu.Unlock()

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.First() {
			if expiry, ok := decodeExpiry(v); ok && expiry.After(now) {
				return nil
			}
			if err := cursor.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep journal: %w", err)
	}
	b.lastCleanup.Store(now.Unix())
	return nil
}

// decodeExpiry decodes the expiry time from the value prefix.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
