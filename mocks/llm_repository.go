package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthinsights/health-insights-backend/models"
)

type LlmRepository struct {
	mock.Mock
}

func (m *LlmRepository) Complete(ctx context.Context, request models.LlmRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}
