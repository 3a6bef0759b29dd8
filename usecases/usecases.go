package usecases

import (
	"time"

	"github.com/healthinsights/health-insights-backend/repositories"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
	"github.com/healthinsights/health-insights-backend/usecases/workflow"
)

// WorkflowConfig holds the settings of the chat flow.
type WorkflowConfig struct {
	SessionTtl      time.Duration `validate:"gt=0"`
	LockTtl         time.Duration `validate:"gt=0"`
	MaxUploadSizeMb int           `validate:"gte=1,lte=100"`
	Location        *time.Location
}

type Usecases struct {
	Repositories repositories.Repositories
	config       WorkflowConfig
	clock        clock.Clock
	graph        *workflow.CompiledGraph
}

type Option func(*options)

type options struct {
	clock clock.Clock
}

func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// NewUsecases compiles the chat workflow once, it is then shared by every request.
func NewUsecases(repos repositories.Repositories, config WorkflowConfig, opts ...Option) (*Usecases, error) {
	o := options{clock: clock.NewInLocation(config.Location)}
	for _, opt := range opts {
		opt(&o)
	}

	graph, err := workflow.BuildChatGraph(
		workflow.NewNodes(repos.LlmRepository, repos.PromptRepository),
		workflow.WithClock(o.clock),
	)
	if err != nil {
		return nil, err
	}

	return &Usecases{
		Repositories: repos,
		config:       config,
		clock:        o.clock,
		graph:        graph,
	}, nil
}

func (usecases *Usecases) NewSessionUsecase() SessionUsecase {
	return SessionUsecase{
		sessionRepository: usecases.Repositories.SessionRepository,
		clock:             usecases.clock,
		ttl:               usecases.config.SessionTtl,
		lockTtl:           usecases.config.LockTtl,
	}
}

func (usecases *Usecases) NewFileValidator() FileValidator {
	return NewFileValidator(usecases.config.MaxUploadSizeMb)
}

func (usecases *Usecases) NewChatUsecase() ChatUsecase {
	return ChatUsecase{
		sessionUsecase: usecases.NewSessionUsecase(),
		fileValidator:  usecases.NewFileValidator(),
		workflow:       usecases.graph,
		blobRepository: usecases.Repositories.BlobRepository,
		clock:          usecases.clock,
	}
}

func (usecases *Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		livenessRepository: usecases.Repositories.RedisClient,
	}
}
