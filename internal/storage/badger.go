package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/hdgen/internal/log"
)

// BadgerDB stores registry entries in a Badger directory under the data dir.
type BadgerDB struct {
	db *badger.DB
}

// badgerLogger forwards Badger's own messages to the storage logger.
// Badger's info chatter (compactions, value log GC) is demoted to debug.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Msgf(strings.TrimSpace(format), args...)
}

// NewBadger opens (or creates) the registry database at path.
func NewBadger(path string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{l: log.Storage}).
		WithValueLogFileSize(16 << 20).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "Cannot acquire directory lock") ||
			strings.Contains(msg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("network registry at %s is locked by another hdgen process: %w", path, err)
		}
		return nil, fmt.Errorf("open network registry at %s: %w", path, err)
	}
	log.Storage.Debug().Str("path", path).Msg("Network registry opened")
	return &BadgerDB{db: db}, nil
}

// Get returns a copy of the value stored under key, or ErrNotFound.
func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return val, nil
}

// Put writes value under key in its own transaction.
func (b *BadgerDB) Put(key, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (b *BadgerDB) Delete(key []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Has reports whether key is present.
func (b *BadgerDB) Has(key []byte) (bool, error) {
	_, err := b.Get(key)
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// ForEach walks the keys under prefix in ascending order.
func (b *BadgerDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %q: %w", key, err)
			}
			if err := fn(key, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// DropPrefix removes every key under prefix in one call.
func (b *BadgerDB) DropPrefix(prefix []byte) error {
	if err := b.db.DropPrefix(prefix); err != nil {
		return fmt.Errorf("drop %q: %w", prefix, err)
	}
	return nil
}

// Close flushes and closes the database.
func (b *BadgerDB) Close() error {
	return b.db.Close()
}
