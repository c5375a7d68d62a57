package suggest

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var sampleBucket = []byte("samples")

// SampleStore caches labeled training samples in a local bolt file so the
// classifier can be retrained without replaying the full expense log.
type SampleStore struct {
	db *bolt.DB
}

// OpenSampleStore opens or creates the sample cache at path.
func OpenSampleStore(path string) (*SampleStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open sample cache %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sampleBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sample bucket: %w", err)
	}
	return &SampleStore{db: db}, nil
}

// Put stores the sample for an expense id, replacing any previous one.
func (s *SampleStore) Put(id int64, sample Sample) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var val bytes.Buffer
		if err := gob.NewEncoder(&val).Encode(sample); err != nil {
			return fmt.Errorf("encode sample %d: %w", id, err)
		}
		return tx.Bucket(sampleBucket).Put(itob(id), val.Bytes())
	})
}

// Delete removes the sample for an expense id. Missing ids are not errors.
func (s *SampleStore) Delete(id int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sampleBucket).Delete(itob(id))
	})
}

// All returns every cached sample. Entries that fail to decode are skipped.
func (s *SampleStore) All() ([]Sample, error) {
	var samples []Sample
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(sampleBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var sample Sample
			if err := gob.NewDecoder(bytes.NewBuffer(v)).Decode(&sample); err != nil {
				continue
			}
			samples = append(samples, sample)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}

// Close releases the underlying bolt file.
func (s *SampleStore) Close() error {
	return s.db.Close()
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
