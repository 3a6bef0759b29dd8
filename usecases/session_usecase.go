package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/repositories"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
	"github.com/healthinsights/health-insights-backend/utils"
)

const sessionIdPrefix = "sess_"

// NewSessionId returns "sess_" followed by 32 lowercase hexadecimal characters.
func NewSessionId() string {
	return sessionIdPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

type SessionUsecase struct {
	sessionRepository repositories.SessionRepository
	clock             clock.Clock
	ttl               time.Duration
	lockTtl           time.Duration
}

// GetOrCreateSession returns the session with the given id, or a brand new session when the id is blank,
// unknown or expired. An unknown id is never reused. An existing session only has its ttl extended: it is
// written back by the caller once it holds the session lock.
func (u SessionUsecase) GetOrCreateSession(ctx context.Context, sessionId string) (models.Session, error) {
	logger := utils.LoggerFromContext(ctx)
	sessionId = strings.TrimSpace(sessionId)

	if sessionId != "" {
		existing, err := u.sessionRepository.GetSession(ctx, sessionId)
		if err != nil {
			return models.Session{}, err
		}
		if existing != nil {
			if err := u.sessionRepository.ExtendSession(ctx, sessionId, u.ttl); err != nil {
				return models.Session{}, err
			}
			return *existing, nil
		}
		logger.InfoContext(ctx, "session not found or expired, creating a new one", "requested_session_id", sessionId)
	}

	session := models.NewSession(NewSessionId(), u.clock.Now())
	if err := u.sessionRepository.SaveSession(ctx, session, u.ttl); err != nil {
		return models.Session{}, err
	}
	utils.MetricSessionsCreated.Inc()
	logger.InfoContext(ctx, "session created", "session_id", session.SessionId)
	return session, nil
}

func (u SessionUsecase) SaveSession(ctx context.Context, session models.Session) error {
	return u.sessionRepository.SaveSession(ctx, session, u.ttl)
}

// GetSession reads a session and keeps it alive for another ttl.
func (u SessionUsecase) GetSession(ctx context.Context, sessionId string) (models.Session, error) {
	session, err := u.sessionRepository.GetSession(ctx, sessionId)
	if err != nil {
		return models.Session{}, err
	}
	if session == nil {
		return models.Session{}, errors.Wrapf(models.NotFoundError, "session %s", sessionId)
	}
	if err := u.sessionRepository.ExtendSession(ctx, sessionId, u.ttl); err != nil {
		return models.Session{}, err
	}
	return *session, nil
}

// DeleteSession waits for an in-flight chat request on the session, so that it cannot save the session back.
func (u SessionUsecase) DeleteSession(ctx context.Context, sessionId string) error {
	unlock, err := u.sessionRepository.Lock(ctx, sessionId, u.lockTtl)
	if err != nil {
		return err
	}
	defer unlock()

	session, err := u.sessionRepository.GetSession(ctx, sessionId)
	if err != nil {
		return err
	}
	if session == nil {
		return errors.Wrapf(models.NotFoundError, "session %s", sessionId)
	}
	return u.sessionRepository.DeleteSession(ctx, sessionId)
}

// LockSession serializes the requests of one session. It returns the session as stored once the lock is
// held, since a concurrent request may have updated it meanwhile.
func (u SessionUsecase) LockSession(ctx context.Context, session models.Session) (models.Session, func(), error) {
	unlock, err := u.sessionRepository.Lock(ctx, session.SessionId, u.lockTtl)
	if err != nil {
		return models.Session{}, nil, err
	}

	fresh, err := u.sessionRepository.GetSession(ctx, session.SessionId)
	if err != nil {
		unlock()
		return models.Session{}, nil, err
	}
	if fresh != nil {
		session = *fresh
	}
	return session, unlock, nil
}
