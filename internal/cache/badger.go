package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// OpenBadger opens a Badger database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string, logger badger.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(logger).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}
	return db, nil
}

// BadgerStore keeps entries in an embedded Badger database. Badger expires
// entries with one-second granularity.
type BadgerStore struct {
	db     *badger.DB
	prefix []byte
}

func NewBadgerStore(db *badger.DB, prefix string) *BadgerStore {
	return &BadgerStore{db: db, prefix: []byte(prefix)}
}

func (s *BadgerStore) key(k string) []byte {
	return append(append([]byte(nil), s.prefix...), k...)
}

func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "badger get")
	}
	return value, true, nil
}

func (s *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(s.key(key), value).WithTTL(ttl))
	})
	return errors.Wrap(err, "badger set")
}

func (s *BadgerStore) Flush(context.Context) error {
	return errors.Wrap(s.db.DropPrefix(s.prefix), "badger drop prefix")
}
