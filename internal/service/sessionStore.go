package service

import (
	"context"
	"encoding/json"
	"loginwatch/internal/models"
	"time"

	"github.com/redis/go-redis/v9"
)

type SessionStore interface {
	Save(ctx context.Context, token string, sess models.Session) error
	Get(ctx context.Context, token string) (models.Session, error)
	Delete(ctx context.Context, token string) error
}

type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(
	rdb *redis.Client,
	ttl time.Duration,
) *RedisSessionStore {
	return &RedisSessionStore{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *RedisSessionStore) Save(
	ctx context.Context,
	token string,
	sess models.Session,
) error {
	key := "session:" + token

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, key, raw, s.ttl).Err()
}

func (s *RedisSessionStore) Get(
	ctx context.Context,
	token string,
) (models.Session, error) {
	key := "session:" + token

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.Session{}, models.ErrSessionNotFound
		}
		return models.Session{}, err
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return models.Session{}, err
	}

	return sess, nil
}

func (s *RedisSessionStore) Delete(
	ctx context.Context,
	token string,
) error {
	key := "session:" + token
	return s.rdb.Del(ctx, key).Err()
}
