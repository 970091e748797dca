// Copyright 2025 The eolscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bolt implements the cache Store on a bbolt file so lookup results
// survive process restarts. Keys follow the eol/{agent}/{hex16} layout and
// purging by agent prefix is supported.
package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eolscout/eolscout/cache"
	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/log"
	"github.com/tidwall/gjson"
	bbolt "go.etcd.io/bbolt"
)

var bucketName = []byte("eol")

// Store is a bbolt-backed cache.Store.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

var _ cache.Store = &Store{}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

// Get implements cache.Store. Expired entries read as misses; they're left
// in place and overwritten by the next Put for the same key.
func (s *Store) Get(agentID string, fp fingerprint.Fingerprint) (cache.Entry, bool) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(cache.Key(agentID, fp))); v != nil {
			raw = bytes.Clone(v)
		}
		return nil
	})
	if err != nil || raw == nil {
		return cache.Entry{}, false
	}
	// Cheap expiry probe before the full decode.
	expires := gjson.GetBytes(raw, "expires_at")
	if expires.Exists() {
		if t, terr := time.Parse(time.RFC3339Nano, expires.String()); terr == nil && s.now().After(t) {
			return cache.Entry{}, false
		}
	}
	var e cache.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		log.Warnf("corrupt cache entry for %s: %v", cache.Key(agentID, fp), err)
		return cache.Entry{}, false
	}
	return e, true
}

// Put implements cache.Store.
func (s *Store) Put(agentID string, fp fingerprint.Fingerprint, e cache.Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(cache.Key(agentID, fp)), raw)
	})
}

// Delete implements cache.Store.
func (s *Store) Delete(agentID string, fp fingerprint.Fingerprint) (bool, error) {
	key := []byte(cache.Key(agentID, fp))
	existed := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get(key) == nil {
			return nil
		}
		existed = true
		return b.Delete(key)
	})
	return existed, err
}

// DeletePrefix implements cache.Store.
func (s *Store) DeletePrefix(agentID string) (int, error) {
	prefix := []byte("eol/")
	if agentID != "" {
		prefix = []byte("eol/" + agentID + "/")
	}
	deleted := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Seek(prefix) {
			if err := c.Delete(); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}
