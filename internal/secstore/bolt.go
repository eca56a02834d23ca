/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package secstore

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltSource stores application secrets in a local bbolt database, one
// bucket per application with secret keys as bucket keys. It serves
// development clusters and air-gapped deployments where no Vault is
// reachable.
type BoltSource struct {
	db *bolt.DB
}

// NewBoltSource opens (or creates) the bbolt database at path.
func NewBoltSource(path string) (*BoltSource, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open secret store %s: %w", path, err)
	}
	return &BoltSource{db: db}, nil
}

// Get implements Source.
func (s *BoltSource) Get(ctx context.Context, application string) (map[string][]byte, error) {
	var values map[string][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(application))
		if bucket == nil {
			return ErrNotFound
		}
		values = make(map[string][]byte)
		return bucket.ForEach(func(k, v []byte) error {
			// Copy out of the transaction; bbolt reuses the backing
			// memory after the transaction closes.
			value := make([]byte, len(v))
			copy(value, v)
			values[string(k)] = value
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Put implements Source.
func (s *BoltSource) Put(ctx context.Context, application string, values map[string][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(application))
		if err != nil {
			return fmt.Errorf("failed to create bucket for %s: %w", application, err)
		}
		for key, value := range values {
			if err := bucket.Put([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close implements Source.
func (s *BoltSource) Close() error {
	return s.db.Close()
}
