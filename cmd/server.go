package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"

	"github.com/healthinsights/health-insights-backend/api"
	"github.com/healthinsights/health-insights-backend/infra"
	"github.com/healthinsights/health-insights-backend/pure_utils"
	"github.com/healthinsights/health-insights-backend/repositories"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
	"github.com/healthinsights/health-insights-backend/usecases"
	"github.com/healthinsights/health-insights-backend/utils"

	_ "time/tzdata"
)

func splitList(raw string) []string {
	items := pure_utils.Map(strings.Split(raw, ","), strings.TrimSpace)
	return pure_utils.Filter(items, func(item string) bool { return item != "" })
}

func RunServer(opts ServerOptions, compiled CompiledConfig) error {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return err
	}

	// This is where we read the environment variables and set up the configuration for the application.
	apiConfig := api.Configuration{
		Env:                 utils.GetEnv("ENV", "development"),
		AppName:             "health-insights-backend",
		AppVersion:          compiled.Version,
		Host:                utils.GetEnv("HOST", "127.0.0.1"),
		Port:                utils.GetEnv("PORT", "8000"),
		RequestLoggingLevel: utils.GetEnv("REQUEST_LOGGING_LEVEL", ""),
		RequestTimeout:      time.Duration(utils.GetEnv("REQUEST_TIMEOUT_SECOND", 120)) * time.Second,
		MaxUploadSizeMb:     utils.GetEnv("MAX_UPLOAD_SIZE_MB", 10),
		RateLimitPerMinute:  utils.GetEnv("RATE_LIMIT_PER_MINUTE", 30),
		CorsAllowedOrigins:  splitList(utils.GetEnv("CORS_ALLOWED_ORIGINS", "")),
		EnablePrometheus:    utils.GetEnv("ENABLE_PROMETHEUS", true),
	}
	redisConfig := infra.RedisConfig{
		Address:       utils.GetEnv("REDIS_ADDRESS", "localhost:6379"),
		Password:      utils.GetEnv("REDIS_PASSWORD", ""),
		Db:            utils.GetEnv("REDIS_DB", 0),
		Tls:           utils.GetEnv("REDIS_TLS", false),
		TlsSkipVerify: utils.GetEnv("REDIS_TLS_SKIP_VERIFY", false),
	}
	llmConfig := infra.LlmConfig{
		ApiKey:     utils.GetEnv("OPENAI_API_KEY", ""),
		BaseUrl:    utils.GetEnv("OPENAI_BASE_URL", ""),
		MaxRetries: utils.GetEnv("LLM_MAX_RETRIES", 2),
		Timeout:    time.Duration(utils.GetEnv("LLM_TIMEOUT_SECOND", 60)) * time.Second,
	}
	telemetryConfig := infra.TelemetryConfiguration{
		Enabled:         utils.GetEnv("ENABLE_TRACING", false),
		ApplicationName: apiConfig.AppName,
		SamplingRate:    utils.GetEnv("OTEL_SAMPLING_RATE", 0.2),
	}
	workflowConfig := usecases.WorkflowConfig{
		SessionTtl:      time.Duration(utils.GetEnv("SESSION_TTL_SECOND", 1800)) * time.Second,
		LockTtl:         apiConfig.RequestTimeout + 10*time.Second,
		MaxUploadSizeMb: apiConfig.MaxUploadSizeMb,
	}
	serverConfig := readServerConfig()
	if opts.LogLevel != "" {
		serverConfig.logLevel = opts.LogLevel
	}
	blobConfig := serverConfig.blobConfig()

	logLevel, err := utils.ParseLogLevel(serverConfig.logLevel)
	if err != nil {
		return err
	}
	logger := utils.NewLogger(serverConfig.loggingFormat, logLevel)
	slog.SetDefault(logger)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := serverConfig.Validate(); err != nil {
		return err
	}
	if err := infra.ValidateConfig(apiConfig, redisConfig, llmConfig, telemetryConfig, workflowConfig); err != nil {
		return err
	}
	location, err := serverConfig.location()
	if err != nil {
		return err
	}
	workflowConfig.Location = location
	promptVersions, err := serverConfig.versions()
	if err != nil {
		return err
	}

	if serverConfig.sentryDsn != "" {
		if err := infra.SetupSentry(serverConfig.sentryDsn, apiConfig.Env, compiled.Version); err != nil {
			logger.WarnContext(ctx, "could not initialize sentry", "error", err.Error())
		}
		defer sentry.Flush(3 * time.Second)
	}

	telemetryRessources, err := infra.InitTelemetry(telemetryConfig, compiled.Version)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		telemetryRessources = infra.NoopTelemetry()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryRessources.Shutdown(shutdownCtx); err != nil {
			logger.WarnContext(ctx, "could not flush traces", "error", err.Error())
		}
	}()

	redisClient, err := repositories.NewRedisClient(redisConfig)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if err := checkPromptCatalog(serverConfig.promptsFile, promptVersions); err != nil {
		return err
	}
	promptRepository, err := repositories.NewFilePromptRepository(serverConfig.promptsFile, promptVersions)
	if err != nil {
		return err
	}

	var blobRepository repositories.BlobRepository
	if blobConfig.Enabled() {
		bucket := repositories.NewBlobRepository(blobConfig.UploadBucketUrl, clock.NewInLocation(location))
		defer bucket.Close()
		blobRepository = bucket
		logger.InfoContext(ctx, "uploaded documents are archived", "bucket", blobConfig.UploadBucketUrl)
	}

	repos := repositories.NewRepositories(
		redisClient,
		promptRepository,
		repositories.NewOpenAiLlmRepository(llmConfig, nil),
		blobRepository,
	)
	uc, err := usecases.NewUsecases(repos, workflowConfig)
	if err != nil {
		return err
	}

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	server, err := api.NewServer(router, apiConfig, *uc)
	if err != nil {
		return err
	}

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.WatchPrompts {
		go func() {
			if err := promptRepository.Watch(notify); err != nil {
				utils.LogAndReportSentryError(ctx, err)
			}
		}()
	}

	go func() {
		logger.InfoContext(ctx, "starting server",
			slog.String("address", server.Addr),
			slog.String("docs", "http://"+server.Addr+"/docs"))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
			stop()
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(
			ctx,
			errors.Wrap(err, "Error while shutting down the server"),
		)
		return err
	}

	return nil
}
