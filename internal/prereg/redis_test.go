package prereg

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

func newRedisStore(t *testing.T, kind domain.RegistrationKind) (*RedisStore, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := newClock()
	return NewRedisStore(rdb, kind).WithClock(clock.Now), mr, clock
}

func TestRedisStore_SaveAndLookup(t *testing.T) {
	store, mr, clock := newRedisStore(t, domain.KindMember)
	ctx := context.Background()

	entry, err := Issue(ctx, store, domain.PreRegistration{
		Kind:     domain.KindMember,
		Email:    "member@example.com",
		Name:     "Member",
		TeamCode: "ABC123",
	}, clock.Now(), time.Hour)
	require.NoError(t, err)

	assert.True(t, mr.Exists("wizdesk:prereg:member:token:"+entry.Token))
	assert.True(t, mr.Exists("wizdesk:prereg:member:code:"+entry.NumericCode))

	got, err := store.Get(ctx, entry.Token)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", got.TeamCode)

	byCode, err := store.FindByCode(ctx, entry.NumericCode)
	require.NoError(t, err)
	assert.Equal(t, entry.Token, byCode.Token)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRedisStore_CodeInUse(t *testing.T) {
	store, _, clock := newRedisStore(t, domain.KindLeader)
	ctx := context.Background()

	exp := clock.Now().Add(time.Hour)
	require.NoError(t, store.Save(ctx, &domain.PreRegistration{Token: "t1", NumericCode: "654321", ExpiresAt: exp}))
	err := store.Save(ctx, &domain.PreRegistration{Token: "t2", NumericCode: "654321", ExpiresAt: exp})
	assert.ErrorIs(t, err, ErrCodeInUse)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr, clock := newRedisStore(t, domain.KindLeader)
	ctx := context.Background()

	entry, err := Issue(ctx, store, domain.PreRegistration{Email: "a@b.c"}, clock.Now(), time.Hour)
	require.NoError(t, err)

	mr.FastForward(time.Hour + time.Second)

	_, err = store.Get(ctx, entry.Token)
	assert.ErrorIs(t, err, my_errors.ErrEntryNotFound)
}

func TestRedisStore_ClockExpiry(t *testing.T) {
	store, _, clock := newRedisStore(t, domain.KindLeader)
	ctx := context.Background()

	entry, err := Issue(ctx, store, domain.PreRegistration{Email: "a@b.c"}, clock.Now(), time.Hour)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = store.Get(ctx, entry.Token)
	assert.ErrorIs(t, err, my_errors.ErrVerificationExpired)
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr, clock := newRedisStore(t, domain.KindLeader)
	ctx := context.Background()

	entry, err := Issue(ctx, store, domain.PreRegistration{Email: "a@b.c"}, clock.Now(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, entry.Token))
	assert.False(t, mr.Exists("wizdesk:prereg:leader:code:"+entry.NumericCode))

	_, err = store.Get(ctx, entry.Token)
	assert.ErrorIs(t, err, my_errors.ErrEntryNotFound)
}

func TestRedisStore_KindsAreSeparate(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	leaders := NewRedisStore(rdb, domain.KindLeader)
	members := NewRedisStore(rdb, domain.KindMember)
	ctx := context.Background()

	entry, err := Issue(ctx, leaders, domain.PreRegistration{Email: "a@b.c"}, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = members.Get(ctx, entry.Token)
	assert.ErrorIs(t, err, my_errors.ErrEntryNotFound)
}
