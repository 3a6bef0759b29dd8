package repositories

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisKey joins key parts with the usual ":" separator.
func RedisKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// RedisLoadModel decodes the JSON value stored at key. The boolean is false when the key does not exist.
func RedisLoadModel[T any](ctx context.Context, client *RedisClient, key string) (T, bool, error) {
	var model T

	out, err := client.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model, false, nil
	}
	if err != nil {
		return model, false, errors.Wrapf(err, "could not read redis key %s", key)
	}

	if err := json.Unmarshal(out, &model); err != nil {
		return model, false, errors.Wrapf(err, "could not decode redis key %s", key)
	}

	return model, true, nil
}

func RedisSaveModel(ctx context.Context, client *RedisClient, key string, model any, ttl time.Duration) error {
	marshalled, err := json.Marshal(model)
	if err != nil {
		return errors.Wrapf(err, "could not encode redis key %s", key)
	}

	return errors.Wrapf(client.client.Set(ctx, key, marshalled, ttl).Err(), "could not write redis key %s", key)
}
