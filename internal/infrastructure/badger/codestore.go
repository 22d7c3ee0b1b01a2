// Package badgerinfra keeps student login codes in an embedded BadgerDB for
// single-node deployments. Entries carry a native TTL, so expired codes vanish
// without a sweeper.
package badgerinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/voter-api/internal/domain"
)

const loginCodeKeyPrefix = "login_code:"

// Open opens (or creates) a database at path. An empty path opens an in-memory instance.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// LoginCodeStore implements the student login code store on BadgerDB.
type LoginCodeStore struct {
	db *badger.DB
}

func NewLoginCodeStore(db *badger.DB) *LoginCodeStore {
	return &LoginCodeStore{db: db}
}

func loginCodeKey(collegeID string) []byte {
	return []byte(loginCodeKeyPrefix + collegeID)
}

func (s *LoginCodeStore) Put(_ context.Context, collegeID, code string, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(loginCodeKey(collegeID), []byte(code)).WithTTL(ttl)
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set login code: %w", err)
		}
		return nil
	})
}

func (s *LoginCodeStore) Get(_ context.Context, collegeID string) (*domain.LoginCode, error) {
	lc := &domain.LoginCode{CollegeID: collegeID}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(loginCodeKey(collegeID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("login code not found: %w", domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get login code: %w", err)
		}
		lc.ExpiresAt = int64(item.ExpiresAt())
		return item.Value(func(val []byte) error {
			lc.Code = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return lc, nil
}

func (s *LoginCodeStore) Delete(_ context.Context, collegeID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(loginCodeKey(collegeID))
	})
}
