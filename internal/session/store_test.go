package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"com.martdev.sellerhub/internal/database/seller"
	"com.martdev.sellerhub/internal/util"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCommander struct {
	mock.Mock
}

func (m *MockCommander) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockCommander) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockCommander) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.BoolCmd)
}

func (m *MockCommander) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func testSeller() *seller.Seller {
	return &seller.Seller{
		ID:         "0d9e8a2c-4f6b-4d3f-9c2b-8d4e6a1c7f5b",
		Fname:      "Ann",
		Lname:      "Lee",
		Email:      "a@x.com",
		Role:       seller.RoleSeller,
		Password:   "never-serialized",
		IsVerified: true,
	}
}

func TestStoreGet(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the cached snapshot", func(t *testing.T) {
		snapshot := testSeller()
		raw, err := json.Marshal(snapshot)
		require.NoError(t, err)

		rdb := new(MockCommander)
		rdb.On("Get", ctx, keyPrefix+snapshot.ID).
			Return(redis.NewStringResult(string(raw), nil))

		got, err := NewStore(rdb).Get(ctx, snapshot.ID)
		require.NoError(t, err)
		assert.Equal(t, snapshot.Email, got.Email)
		assert.Equal(t, snapshot.Role, got.Role)
		// The hash is excluded from the serialized snapshot.
		assert.Empty(t, got.Password)
		rdb.AssertExpectations(t)
	})

	t.Run("should map an absent key to not found", func(t *testing.T) {
		rdb := new(MockCommander)
		rdb.On("Get", ctx, keyPrefix+"missing").
			Return(redis.NewStringResult("", redis.Nil))

		_, err := NewStore(rdb).Get(ctx, "missing")
		assert.ErrorIs(t, err, util.ErrorNotFound)
	})

	t.Run("should surface a corrupt snapshot", func(t *testing.T) {
		rdb := new(MockCommander)
		rdb.On("Get", ctx, keyPrefix+"bad").
			Return(redis.NewStringResult("{not json", nil))

		_, err := NewStore(rdb).Get(ctx, "bad")
		assert.Error(t, err)
	})
}

func TestStoreSet(t *testing.T) {
	ctx := context.Background()
	snapshot := testSeller()

	t.Run("should write with the session TTL", func(t *testing.T) {
		rdb := new(MockCommander)
		rdb.On("Set", ctx, keyPrefix+snapshot.ID, mock.Anything, TTL).
			Return(redis.NewStatusResult("OK", nil))

		require.NoError(t, NewStore(rdb).Set(ctx, snapshot))
		rdb.AssertExpectations(t)
	})

	t.Run("conditional write uses SETNX with the same TTL", func(t *testing.T) {
		rdb := new(MockCommander)
		rdb.On("SetNX", ctx, keyPrefix+snapshot.ID, mock.Anything, TTL).
			Return(redis.NewBoolResult(false, nil))

		// A losing race is not an error: the earlier writer's value
		// stays.
		require.NoError(t, NewStore(rdb).SetIfAbsent(ctx, snapshot))
		rdb.AssertExpectations(t)
	})

	t.Run("serialized snapshot never carries the password", func(t *testing.T) {
		rdb := new(MockCommander)
		rdb.On("Set", ctx, keyPrefix+snapshot.ID, mock.MatchedBy(func(raw []byte) bool {
			var decoded map[string]any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return false
			}
			_, hasPassword := decoded["password"]
			return !hasPassword
		}), TTL).Return(redis.NewStatusResult("OK", nil))

		require.NoError(t, NewStore(rdb).Set(ctx, snapshot))
		rdb.AssertExpectations(t)
	})
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()

	rdb := new(MockCommander)
	rdb.On("Del", ctx, []string{keyPrefix + "abc"}).
		Return(redis.NewIntResult(1, nil))

	require.NoError(t, NewStore(rdb).Delete(ctx, "abc"))
	rdb.AssertExpectations(t)
}
