// Package boltdb хранит сессию CLI клиента в локальном bbolt файле.
package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// bucketSession хранит текущую сессию клиента
var bucketSession = []byte("session")

// Storage хранит локальную сессию клиента в bbolt
type Storage struct {
	db *bbolt.DB
}

// New открывает bbolt файл по пути dbPath и готовит buckets.
// Права 0600: в файле лежат токены
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		// Второй запущенный клиент не должен висеть на файловой блокировке
		Timeout: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close закрывает базу
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
