// Package database persists the provider registry using BoltDB.
package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"

	apperrors "github.com/avolet/govodmatch/internal/errors"
	"github.com/avolet/govodmatch/pkg/vodsearch/models"
)

const (
	dbFileMode = 0600
	dbDirMode  = 0755
)

var providersBucket = []byte("providers")

// ProviderStore defines the registry persistence operations. The match
// orchestrator only ever reads a snapshot through ListEnabled; writes come
// from the admin endpoints.
type ProviderStore interface {
	// List returns every provider ordered by priority, then key.
	List() ([]models.Provider, error)
	// ListEnabled returns only providers participating in searches.
	ListEnabled() ([]models.Provider, error)
	// Get returns a provider by key, or nil when absent.
	Get(key string) (*models.Provider, error)
	// Put creates or replaces a provider keyed by its Key field.
	Put(provider models.Provider) error
	// Delete removes a provider by key. Deleting an absent key is a no-op.
	Delete(key string) error
	// Close closes the underlying database.
	Close() error
}

// BoltStore implements ProviderStore on a BoltDB file.
type BoltStore struct {
	db *bolt.DB
}

// NewBolt opens (creating if needed) the registry database at dbPath.
func NewBolt(dbPath string) (*BoltStore, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", "data.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(providersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create providers bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) List() ([]models.Provider, error) {
	var providers []models.Provider

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(providersBucket).ForEach(func(k, v []byte) error {
			var p models.Provider
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("corrupt provider record %q: %w", k, err)
			}
			providers = append(providers, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(providers, func(i, j int) bool {
		if providers[i].Priority != providers[j].Priority {
			return providers[i].Priority < providers[j].Priority
		}
		return providers[i].Key < providers[j].Key
	})

	return providers, nil
}

func (s *BoltStore) ListEnabled() ([]models.Provider, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	enabled := make([]models.Provider, 0, len(all))
	for _, p := range all {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	return enabled, nil
}

func (s *BoltStore) Get(key string) (*models.Provider, error) {
	var provider *models.Provider

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(providersBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		var p models.Provider
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("corrupt provider record %q: %w", key, err)
		}
		provider = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return provider, nil
}

func (s *BoltStore) Put(provider models.Provider) error {
	if strings.TrimSpace(provider.Key) == "" {
		return apperrors.NewProviderInvalidError("provider key must not be empty")
	}

	data, err := json.Marshal(provider)
	if err != nil {
		return fmt.Errorf("failed to encode provider %q: %w", provider.Key, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(providersBucket).Put([]byte(provider.Key), data)
	})
}

func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(providersBucket).Delete([]byte(key))
	})
}
