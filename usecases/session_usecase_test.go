package usecases

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/healthinsights/health-insights-backend/mocks"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
)

var sessionIdPattern = regexp.MustCompile(`^sess_[0-9a-f]{32}$`)

type SessionUsecaseTestSuite struct {
	suite.Suite
	sessionRepository *mocks.SessionRepository
	clock             *clock.Mock
	ttl               time.Duration

	ctx             context.Context
	existing        models.Session
	repositoryError error
}

func (suite *SessionUsecaseTestSuite) SetupTest() {
	suite.sessionRepository = new(mocks.SessionRepository)
	suite.clock = clock.NewMock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	suite.ttl = 30 * time.Minute

	suite.ctx = context.Background()
	suite.existing = models.NewSession("sess_0123456789abcdef0123456789abcdef", suite.clock.Now().Add(-time.Hour))
	suite.existing.MessageCount = 3
	suite.repositoryError = errors.New("some repository error")
}

func (suite *SessionUsecaseTestSuite) makeUsecase() SessionUsecase {
	return SessionUsecase{
		sessionRepository: suite.sessionRepository,
		clock:             suite.clock,
		ttl:               suite.ttl,
		lockTtl:           time.Minute,
	}
}

func (suite *SessionUsecaseTestSuite) AssertExpectations() {
	t := suite.T()
	suite.sessionRepository.AssertExpectations(t)
}

func (suite *SessionUsecaseTestSuite) TestNewSessionIdFormat() {
	first, second := NewSessionId(), NewSessionId()
	suite.Regexp(sessionIdPattern, first)
	suite.NotEqual(first, second)
}

func (suite *SessionUsecaseTestSuite) TestGetOrCreateSession_blankId() {
	suite.sessionRepository.On("SaveSession", suite.ctx, mock.MatchedBy(func(session models.Session) bool {
		return sessionIdPattern.MatchString(session.SessionId)
	}), suite.ttl).Return(nil)

	session, err := suite.makeUsecase().GetOrCreateSession(suite.ctx, "   ")

	suite.NoError(err)
	suite.Regexp(sessionIdPattern, session.SessionId)
	suite.Equal(suite.clock.Now(), session.CreatedAt)
	suite.Equal([]models.ConversationTurn{}, session.ConversationHistory)
	suite.False(session.HasActiveAnalysis)
	suite.Zero(session.MessageCount)
	suite.AssertExpectations()
}

func (suite *SessionUsecaseTestSuite) TestGetOrCreateSession_unknownId() {
	suite.sessionRepository.On("GetSession", suite.ctx, "sess_expired").Return(nil, nil)
	suite.sessionRepository.On("SaveSession", suite.ctx, mock.Anything, suite.ttl).Return(nil)

	session, err := suite.makeUsecase().GetOrCreateSession(suite.ctx, "sess_expired")

	suite.NoError(err)
	suite.NotEqual("sess_expired", session.SessionId)
	suite.Regexp(sessionIdPattern, session.SessionId)
	suite.AssertExpectations()
}

func (suite *SessionUsecaseTestSuite) TestGetOrCreateSession_existing() {
	existing := suite.existing
	suite.sessionRepository.On("GetSession", suite.ctx, existing.SessionId).Return(&existing, nil)
	suite.sessionRepository.On("ExtendSession", suite.ctx, existing.SessionId, suite.ttl).Return(nil)

	session, err := suite.makeUsecase().GetOrCreateSession(suite.ctx, existing.SessionId)

	suite.NoError(err)
	suite.Equal(suite.existing.SessionId, session.SessionId)
	suite.Equal(3, session.MessageCount)
	suite.sessionRepository.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *SessionUsecaseTestSuite) TestGetOrCreateSession_repositoryError() {
	suite.sessionRepository.On("GetSession", suite.ctx, "sess_any").Return(nil, suite.repositoryError)

	_, err := suite.makeUsecase().GetOrCreateSession(suite.ctx, "sess_any")

	suite.ErrorIs(err, suite.repositoryError)
	suite.sessionRepository.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionUsecaseTestSuite) TestGetSession() {
	existing := suite.existing
	suite.sessionRepository.On("GetSession", suite.ctx, existing.SessionId).Return(&existing, nil)
	suite.sessionRepository.On("ExtendSession", suite.ctx, existing.SessionId, suite.ttl).Return(nil)

	session, err := suite.makeUsecase().GetSession(suite.ctx, existing.SessionId)

	suite.NoError(err)
	suite.Equal(suite.existing, session)
	suite.AssertExpectations()
}

func (suite *SessionUsecaseTestSuite) TestGetSession_notFound() {
	suite.sessionRepository.On("GetSession", suite.ctx, "sess_missing").Return(nil, nil)

	_, err := suite.makeUsecase().GetSession(suite.ctx, "sess_missing")

	suite.ErrorIs(err, models.NotFoundError)
}

func (suite *SessionUsecaseTestSuite) TestDeleteSession() {
	existing := suite.existing
	unlocked := false
	suite.sessionRepository.On("Lock", suite.ctx, existing.SessionId, time.Minute).
		Return(func() { unlocked = true }, nil)
	suite.sessionRepository.On("GetSession", suite.ctx, existing.SessionId).Return(&existing, nil)
	suite.sessionRepository.On("DeleteSession", suite.ctx, existing.SessionId).Return(nil)

	err := suite.makeUsecase().DeleteSession(suite.ctx, existing.SessionId)

	suite.NoError(err)
	suite.True(unlocked)
	suite.AssertExpectations()
}

func (suite *SessionUsecaseTestSuite) TestDeleteSession_notFound() {
	suite.sessionRepository.On("Lock", suite.ctx, "sess_missing", time.Minute).Return(func() {}, nil)
	suite.sessionRepository.On("GetSession", suite.ctx, "sess_missing").Return(nil, nil)

	err := suite.makeUsecase().DeleteSession(suite.ctx, "sess_missing")

	suite.ErrorIs(err, models.NotFoundError)
	suite.sessionRepository.AssertNotCalled(suite.T(), "DeleteSession", mock.Anything, mock.Anything)
}

func (suite *SessionUsecaseTestSuite) TestDeleteSession_busy() {
	suite.sessionRepository.On("Lock", suite.ctx, suite.existing.SessionId, time.Minute).
		Return(nil, models.ErrSessionBusy)

	err := suite.makeUsecase().DeleteSession(suite.ctx, suite.existing.SessionId)

	suite.ErrorIs(err, models.ConflictError)
	suite.sessionRepository.AssertNotCalled(suite.T(), "GetSession", mock.Anything, mock.Anything)
	suite.sessionRepository.AssertNotCalled(suite.T(), "DeleteSession", mock.Anything, mock.Anything)
}

func (suite *SessionUsecaseTestSuite) TestLockSession_returnsStoredSession() {
	unlocked := false
	stored := suite.existing
	stored.MessageCount = 4
	suite.sessionRepository.On("Lock", suite.ctx, stored.SessionId, time.Minute).
		Return(func() { unlocked = true }, nil)
	suite.sessionRepository.On("GetSession", suite.ctx, stored.SessionId).Return(&stored, nil)

	session, unlock, err := suite.makeUsecase().LockSession(suite.ctx, suite.existing)

	suite.Require().NoError(err)
	suite.Equal(4, session.MessageCount)
	unlock()
	suite.True(unlocked)
}

func (suite *SessionUsecaseTestSuite) TestLockSession_busy() {
	suite.sessionRepository.On("Lock", suite.ctx, suite.existing.SessionId, time.Minute).
		Return(nil, models.ErrSessionBusy)

	_, _, err := suite.makeUsecase().LockSession(suite.ctx, suite.existing)

	suite.ErrorIs(err, models.ConflictError)
}

func TestSessionUsecase(t *testing.T) {
	suite.Run(t, new(SessionUsecaseTestSuite))
}
