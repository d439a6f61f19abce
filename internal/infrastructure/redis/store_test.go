package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/infrastructure/redis"
)

// fakeCmdable answers Get, Set and Del from a map; every other command panics.
type fakeCmdable struct {
	goredis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFake() *fakeCmdable {
	return &fakeCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := redis.NewRedisStore(fake, "clinic-console")

	require.NoError(t, s.Set(ctx, "workspace:1:surgery-auth-storage", []byte("v"), -time.Second))
	assert.Equal(t, "v", fake.data["clinic-console:workspace:1:surgery-auth-storage"])
	assert.Equal(t, time.Duration(0), fake.ttls["clinic-console:workspace:1:surgery-auth-storage"])

	got, ok, err := s.Get(ctx, "workspace:1:surgery-auth-storage")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	_, ok, err = s.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "workspace:1:surgery-auth-storage"))
	assert.Empty(t, fake.data)
}

func TestRedisStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	fake := newFake()
	fake.err = boom
	s := redis.NewRedisStore(fake, "")

	_, ok, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Set(context.Background(), "k", []byte("v"), time.Minute), boom)
}
