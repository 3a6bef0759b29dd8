package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type BlobRepository struct {
	mock.Mock
}

func (m *BlobRepository) PutUpload(ctx context.Context, sessionId, filename, contentType string, content []byte) (string, error) {
	args := m.Called(ctx, sessionId, filename, contentType, content)
	return args.String(0), args.Error(1)
}
