package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/healthinsights/health-insights-backend/models"
)

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) GetSession(ctx context.Context, sessionId string) (*models.Session, error) {
	args := m.Called(ctx, sessionId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *SessionRepository) SaveSession(ctx context.Context, session models.Session, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *SessionRepository) ExtendSession(ctx context.Context, sessionId string, ttl time.Duration) error {
	args := m.Called(ctx, sessionId, ttl)
	return args.Error(0)
}

func (m *SessionRepository) DeleteSession(ctx context.Context, sessionId string) error {
	args := m.Called(ctx, sessionId)
	return args.Error(0)
}

func (m *SessionRepository) Lock(ctx context.Context, sessionId string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, sessionId, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
