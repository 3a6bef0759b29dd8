package repositories

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/healthinsights/health-insights-backend/infra"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/utils"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
)

const defaultLlmTimeout = 60 * time.Second

type LlmRepository interface {
	Complete(ctx context.Context, request models.LlmRequest) (string, error)
}

type OpenAiLlmRepository struct {
	client  openai.Client
	timeout time.Duration
}

// NewOpenAiLlmRepository builds the chat completion client. httpClient may be nil to use the default one.
func NewOpenAiLlmRepository(cfg infra.LlmConfig, httpClient *http.Client) *OpenAiLlmRepository {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.ApiKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseUrl != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseUrl))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultLlmTimeout
	}

	return &OpenAiLlmRepository{
		client:  openai.NewClient(opts...),
		timeout: timeout,
	}
}

func (repo *OpenAiLlmRepository) Complete(ctx context.Context, request models.LlmRequest) (string, error) {
	ctx, span := utils.StartSpan(ctx, "repositories.LlmRepository.Complete",
		attribute.String("llm.prompt", request.Prompt.String()),
		attribute.String("llm.model", request.Model),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	logger := utils.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "sending llm request",
		"prompt", request.Prompt.String(),
		"model", request.Model,
		"user", request.User)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if request.System != "" {
		messages = append(messages, openai.SystemMessage(request.System))
	}
	messages = append(messages, openai.UserMessage(request.User))

	resp, err := repo.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       request.Model,
		Temperature: openai.Float(request.Temperature),
	})
	if err != nil {
		utils.MetricLlmRequests.WithLabelValues(request.Prompt.Module, request.Prompt.Key, "error").Inc()
		span.RecordError(err)
		return "", errors.Wrapf(err, "llm completion failed for prompt %s", request.Prompt)
	}
	if len(resp.Choices) == 0 {
		utils.MetricLlmRequests.WithLabelValues(request.Prompt.Module, request.Prompt.Key, "empty").Inc()
		return "", errors.Newf("llm returned no choice for prompt %s", request.Prompt)
	}

	utils.MetricLlmRequests.WithLabelValues(request.Prompt.Module, request.Prompt.Key, "success").Inc()

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	logger.DebugContext(ctx, "received llm response", "prompt", request.Prompt.String(), "content", content)
	return content, nil
}
