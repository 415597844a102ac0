// Package database persists resolved title metadata in a bbolt file.
package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/amaumene/gostremiojackett/internal/models"
)

const (
	dbFileMode = 0600
	dbDirMode  = 0755

	titleMetaBucket = "title_meta"
)

// MetaStore stores title metadata by media type and title id.
type MetaStore interface {
	GetTitleMeta(mediaType models.MediaType, titleID string) (*models.TitleMeta, error)
	StoreTitleMeta(mediaType models.MediaType, titleID string, meta models.TitleMeta) error
	Close() error
}

type titleMetaRecord struct {
	models.TitleMeta
	CreatedAt time.Time `json:"created_at"`
}

// BoltStore implements MetaStore on top of bbolt.
type BoltStore struct {
	db     *bolt.DB
	maxAge time.Duration
	now    func() time.Time
}

// NewBolt opens (or creates) the database at path. Records older than maxAge
// are treated as missing; a zero maxAge keeps them forever.
func NewBolt(path string, maxAge time.Duration) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(path, dbFileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(titleMetaBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltStore{db: db, maxAge: maxAge, now: time.Now}, nil
}

func metaKey(mediaType models.MediaType, titleID string) []byte {
	return []byte(string(mediaType) + ":" + titleID)
}

// GetTitleMeta returns nil, nil when nothing fresh is stored for the title.
func (s *BoltStore) GetTitleMeta(mediaType models.MediaType, titleID string) (*models.TitleMeta, error) {
	var record *titleMetaRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(titleMetaBucket)).Get(metaKey(mediaType, titleID))
		if data == nil {
			return nil
		}
		record = &titleMetaRecord{}
		return json.Unmarshal(data, record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read title meta %s: %w", titleID, err)
	}

	if record == nil {
		return nil, nil
	}
	if s.maxAge > 0 && s.now().Sub(record.CreatedAt) > s.maxAge {
		return nil, nil
	}

	meta := record.TitleMeta
	return &meta, nil
}

func (s *BoltStore) StoreTitleMeta(mediaType models.MediaType, titleID string, meta models.TitleMeta) error {
	data, err := json.Marshal(titleMetaRecord{TitleMeta: meta, CreatedAt: s.now()})
	if err != nil {
		return fmt.Errorf("failed to encode title meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(titleMetaBucket)).Put(metaKey(mediaType, titleID), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
