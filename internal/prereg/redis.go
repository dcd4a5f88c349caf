package prereg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wizdesk:prereg:"

type RedisStore struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore keeps entries of one registration kind under their own
// key namespace.
func NewRedisStore(rdb *redis.Client, kind domain.RegistrationKind) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: keyPrefix + string(kind) + ":",
		now:    time.Now,
	}
}

func (s *RedisStore) WithClock(now func() time.Time) *RedisStore {
	s.now = now
	return s
}

func (s *RedisStore) tokenKey(token string) string { return s.prefix + "token:" + token }
func (s *RedisStore) codeKey(code string) string   { return s.prefix + "code:" + code }

func (s *RedisStore) Save(ctx context.Context, entry *domain.PreRegistration) error {
	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("save pre-registration: %w", my_errors.ErrVerificationExpired)
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal pre-registration: %w", err)
	}

	ok, err := s.rdb.SetNX(ctx, s.codeKey(entry.NumericCode), entry.Token, ttl).Result()
	if err != nil {
		return fmt.Errorf("prereg setnx: %w", err)
	}
	if !ok {
		return ErrCodeInUse
	}

	if err := s.rdb.Set(ctx, s.tokenKey(entry.Token), payload, ttl).Err(); err != nil {
		_ = s.rdb.Del(ctx, s.codeKey(entry.NumericCode)).Err()
		return fmt.Errorf("prereg set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*domain.PreRegistration, error) {
	raw, err := s.rdb.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, my_errors.ErrEntryNotFound
		}
		return nil, fmt.Errorf("prereg get: %w", err)
	}

	var entry domain.PreRegistration
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal pre-registration: %w", err)
	}
	if entry.Expired(s.now()) {
		_ = s.Delete(ctx, token)
		return nil, my_errors.ErrVerificationExpired
	}
	return &entry, nil
}

func (s *RedisStore) FindByCode(ctx context.Context, code string) (*domain.PreRegistration, error) {
	token, err := s.rdb.Get(ctx, s.codeKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, my_errors.ErrEntryNotFound
		}
		return nil, fmt.Errorf("prereg get code: %w", err)
	}
	return s.Get(ctx, token)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	raw, err := s.rdb.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("prereg get: %w", err)
	}

	keys := []string{s.tokenKey(token)}
	var entry domain.PreRegistration
	if len(raw) > 0 && json.Unmarshal(raw, &entry) == nil && entry.NumericCode != "" {
		keys = append(keys, s.codeKey(entry.NumericCode))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("prereg del: %w", err)
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	count := 0
	iter := s.rdb.Scan(ctx, 0, s.prefix+"token:*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("prereg scan: %w", err)
	}
	return count, nil
}
