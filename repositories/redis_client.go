package repositories

import (
	"context"
	"crypto/tls"

	"github.com/cockroachdb/errors"
	"github.com/healthinsights/health-insights-backend/infra"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(cfg infra.RedisConfig) (*RedisClient, error) {
	ctx := context.Background()

	var tlsConfig *tls.Config

	if cfg.Tls {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.TlsSkipVerify,
		}
	}

	client := &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:      cfg.Address,
			Password:  cfg.Password,
			DB:        cfg.Db,
			TLSConfig: tlsConfig,
		}),
	}

	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "could not reach redis, it must be running on %s", cfg.Address)
	}

	return client, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}
