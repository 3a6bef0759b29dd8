package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/healthinsights/health-insights-backend/models"
)

type PromptRepository struct {
	mock.Mock
}

func (m *PromptRepository) GetPrompt(ref models.PromptRef) (models.PromptConfig, error) {
	args := m.Called(ref)
	return args.Get(0).(models.PromptConfig), args.Error(1)
}
