package usecases

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/healthinsights/health-insights-backend/models"
)

type livenessRepository interface {
	Ping(ctx context.Context) error
}

type LivenessUsecase struct {
	livenessRepository livenessRepository
}

func (u LivenessUsecase) Liveness(ctx context.Context) error {
	if err := u.livenessRepository.Ping(ctx); err != nil {
		return errors.Mark(errors.Wrap(err, "redis is not reachable"), models.UnavailableError)
	}
	return nil
}
