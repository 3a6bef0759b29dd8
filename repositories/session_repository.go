package repositories

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/utils"
)

const (
	sessionKeyPrefix = "session"

	defaultLockRetryDelay = 100 * time.Millisecond
	defaultLockAttempts   = 50
)

// Deletes the lock only if it still holds our token, so that an expired lock taken over by
// another request is left alone.
var unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

var errLockHeld = errors.New("session lock is held")

type SessionRepository interface {
	GetSession(ctx context.Context, sessionId string) (*models.Session, error)
	SaveSession(ctx context.Context, session models.Session, ttl time.Duration) error
	ExtendSession(ctx context.Context, sessionId string, ttl time.Duration) error
	DeleteSession(ctx context.Context, sessionId string) error
	Lock(ctx context.Context, sessionId string, ttl time.Duration) (func(), error)
}

type RedisSessionRepository struct {
	client         *RedisClient
	lockRetryDelay time.Duration
	lockAttempts   uint
}

func NewSessionRepository(client *RedisClient) *RedisSessionRepository {
	return &RedisSessionRepository{
		client:         client,
		lockRetryDelay: defaultLockRetryDelay,
		lockAttempts:   defaultLockAttempts,
	}
}

func sessionKey(sessionId string) string {
	return RedisKey(sessionKeyPrefix, sessionId)
}

func sessionLockKey(sessionId string) string {
	return RedisKey(sessionKeyPrefix, sessionId, "lock")
}

func (repo *RedisSessionRepository) GetSession(ctx context.Context, sessionId string) (*models.Session, error) {
	ctx, span := utils.StartSpan(ctx, "repositories.SessionRepository.GetSession")
	defer span.End()

	session, found, err := RedisLoadModel[models.Session](ctx, repo.client, sessionKey(sessionId))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	session.Normalize()
	return &session, nil
}

func (repo *RedisSessionRepository) SaveSession(ctx context.Context, session models.Session, ttl time.Duration) error {
	ctx, span := utils.StartSpan(ctx, "repositories.SessionRepository.SaveSession")
	defer span.End()

	return RedisSaveModel(ctx, repo.client, sessionKey(session.SessionId), session, ttl)
}

func (repo *RedisSessionRepository) ExtendSession(ctx context.Context, sessionId string, ttl time.Duration) error {
	err := repo.client.client.Expire(ctx, sessionKey(sessionId), ttl).Err()
	return errors.Wrapf(err, "could not extend session %s", sessionId)
}

func (repo *RedisSessionRepository) DeleteSession(ctx context.Context, sessionId string) error {
	err := repo.client.client.Del(ctx, sessionKey(sessionId)).Err()
	return errors.Wrapf(err, "could not delete session %s", sessionId)
}

// Lock takes the per-session lock, waiting for a concurrent request on the same session to release it.
// The lock expires after ttl in case the holder dies. The returned function releases it.
func (repo *RedisSessionRepository) Lock(ctx context.Context, sessionId string, ttl time.Duration) (func(), error) {
	key := sessionLockKey(sessionId)
	token := uuid.NewString()

	err := retry.Do(
		func() error {
			ok, err := repo.client.client.SetNX(ctx, key, token, ttl).Result()
			if err != nil {
				return retry.Unrecoverable(errors.Wrapf(err, "could not lock session %s", sessionId))
			}
			if !ok {
				return errLockHeld
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(repo.lockAttempts),
		retry.Delay(repo.lockRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if errors.Is(err, errLockHeld) {
		return nil, models.ErrSessionBusy
	}
	if err != nil {
		return nil, err
	}

	unlock := func() {
		// the request context may already be done, release the lock anyway
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		err := repo.client.client.Eval(releaseCtx, unlockScript, []string{key}, token).Err()
		if err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "could not release session lock", "error", err.Error())
		}
	}
	return unlock, nil
}
