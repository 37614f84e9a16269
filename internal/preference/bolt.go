package preference

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketPreferences = []byte("preferences")

// BoltDB is a bbolt file holding the preferences of every visitor.
type BoltDB struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the preference database at path.
func OpenBolt(path string) (*BoltDB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPreferences)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltDB{db: db}, nil
}

// Close releases the database file.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// Medium returns a medium scoped to one visitor.
func (b *BoltDB) Medium(visitorID string) Medium {
	return &boltMedium{db: b.db, visitor: visitorID}
}

type boltMedium struct {
	db      *bolt.DB
	visitor string
}

func (m *boltMedium) key(key string) []byte {
	return []byte(m.visitor + ":" + key)
}

func (m *boltMedium) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := m.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return nil
		}
		if v := b.Get(m.key(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

func (m *boltMedium) Set(key string, value []byte) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPreferences).Put(m.key(key), value)
	})
}
