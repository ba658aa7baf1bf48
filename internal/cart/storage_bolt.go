package cart

import (
	"context"
	"time"

	"github.com/avignatattva/storefront/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var (
	json       = jsoniter.ConfigCompatibleWithStandardLibrary
	cartBucket = []byte("carts")
)

type boltRecord struct {
	Items     []domain.CartItem `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BoltStorage keeps carts in a single bbolt file, one key per cart
type BoltStorage struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBoltStorage opens (or creates) the database file at path
func OpenBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open cart db %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create cart bucket")
	}
	return &BoltStorage{db: db, now: time.Now}, nil
}

func (b *BoltStorage) Load(_ context.Context, cartID string) ([]domain.CartItem, error) {
	var rec boltRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(cartBucket).Get([]byte(cartID))
		if data == nil {
			return ErrCartNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.Items, nil
}

func (b *BoltStorage) Save(_ context.Context, cartID string, items []domain.CartItem) error {
	data, err := json.Marshal(boltRecord{Items: items, UpdatedAt: b.now()})
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Put([]byte(cartID), data)
	})
}

func (b *BoltStorage) Delete(_ context.Context, cartID string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Delete([]byte(cartID))
	})
}

func (b *BoltStorage) Purge(_ context.Context, before time.Time, keep []string) (int, error) {
	skip := keepSet(keep)
	n := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(cartBucket)
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if _, ok := skip[string(k)]; ok {
				return nil
			}
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil || rec.UpdatedAt.Before(before) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		n = len(stale)
		return nil
	})
	return n, err
}

func (b *BoltStorage) Close() error {
	return b.db.Close()
}
