// Package session caches denormalized seller snapshots in Redis, keyed
// by seller id. The cache is subordinate to Postgres: entries may be
// stale relative to the persistent record, and Postgres stays the
// canonical identity store. The snapshot never contains the password
// hash (it is excluded from seller JSON serialization).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"com.martdev.sellerhub/internal/database/seller"
	"com.martdev.sellerhub/internal/util"
	"github.com/redis/go-redis/v9"
)

// TTL applies to every session write. The original system skipped the
// expiry on the signin path; one consistent policy is kept instead.
const TTL = 7 * 24 * time.Hour

const keyPrefix = "seller_session:"

// Commander is the slice of the go-redis API the store needs; it keeps
// the store mockable without a running Redis.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Store struct {
	rdb Commander
}

func NewStore(rdb Commander) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Get(ctx context.Context, sellerID string) (*seller.Seller, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+sellerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, util.ErrorNotFound
		}
		return nil, err
	}

	var snapshot seller.Seller
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (s *Store) Set(ctx context.Context, snapshot *seller.Seller) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, keyPrefix+snapshot.ID, raw, TTL).Err()
}

// SetIfAbsent writes the snapshot only when no session exists for the
// seller. On a concurrent refresh the first writer wins and the loser's
// snapshot is discarded; there is no lock around the session.
func (s *Store) SetIfAbsent(ctx context.Context, snapshot *seller.Seller) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return s.rdb.SetNX(ctx, keyPrefix+snapshot.ID, raw, TTL).Err()
}

func (s *Store) Delete(ctx context.Context, sellerID string) error {
	return s.rdb.Del(ctx, keyPrefix+sellerID).Err()
}
