package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ncobase/gqltable/config"
)

func init() {
	Register(badgerDriver{})
}

type badgerDriver struct{}

func (badgerDriver) Name() string { return "badger" }

func (badgerDriver) Open(_ context.Context, cfg *config.Snapshot) (Store, error) {
	bc := &config.Badger{InMemory: true}
	if cfg != nil && cfg.Badger != nil {
		bc = cfg.Badger
	}
	return OpenBadger(bc.Path, bc.InMemory)
}

// Badger stores snapshots in an embedded badger database.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens the database at path, or an in-memory one.
func OpenBadger(path string, inMemory bool) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// Save implements Store.
func (b *Badger) Save(_ context.Context, id string, values url.Values) error {
	data, err := encode(values)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key(id)), data)
	})
}

// Load implements Store.
func (b *Badger) Load(_ context.Context, id string) (url.Values, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(id)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decode(data)
}

// Delete implements Store.
func (b *Badger) Delete(_ context.Context, id string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(Key(id)))
	})
}

// Close implements Store.
func (b *Badger) Close() error {
	return b.db.Close()
}
