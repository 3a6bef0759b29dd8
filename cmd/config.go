package cmd

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/healthinsights/health-insights-backend/infra"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/utils"
)

const defaultEnvFile = ".env"

type CompiledConfig struct {
	Version string
}

type ServerOptions struct {
	EnvFile      string
	LogLevel     string
	WatchPrompts bool
}

type ServerConfig struct {
	loggingFormat        string
	logLevel             string
	sentryDsn            string
	timezone             string
	promptsFile          string
	promptVersions       string
	defaultPromptVersion string
	uploadBucketUrl      string
}

func (config ServerConfig) Validate() error {
	if config.loggingFormat != "text" && config.loggingFormat != "json" {
		return errors.Newf("LOGGING_FORMAT must be text or json, got %q", config.loggingFormat)
	}
	if config.promptsFile == "" {
		return errors.New("PROMPTS_FILE must not be empty")
	}
	return nil
}

func (config ServerConfig) location() (*time.Location, error) {
	location, err := time.LoadLocation(config.timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid TIMEZONE %q", config.timezone)
	}
	return location, nil
}

func (config ServerConfig) versions() (models.PromptVersions, error) {
	return models.ParsePromptVersions(config.promptVersions, config.defaultPromptVersion)
}

func (config ServerConfig) blobConfig() infra.BlobConfig {
	return infra.BlobConfig{UploadBucketUrl: config.uploadBucketUrl}
}

func readServerConfig() ServerConfig {
	return ServerConfig{
		loggingFormat:        utils.GetEnv("LOGGING_FORMAT", "text"),
		logLevel:             utils.GetEnv("LOG_LEVEL", "info"),
		sentryDsn:            utils.GetEnv("SENTRY_DSN", ""),
		timezone:             utils.GetEnv("TIMEZONE", "Asia/Singapore"),
		promptsFile:          utils.GetEnv("PROMPTS_FILE", "prompts/prompts.json"),
		promptVersions:       utils.GetEnv("PROMPT_VERSIONS", ""),
		defaultPromptVersion: utils.GetEnv("DEFAULT_PROMPT_VERSION", models.DefaultPromptVersion),
		uploadBucketUrl:      utils.GetEnv("UPLOAD_BUCKET_URL", ""),
	}
}

// loadEnvFile loads a dotenv file without overriding variables already set in the environment.
// The default file is optional, a file given explicitly must exist.
func loadEnvFile(path string) error {
	if path == "" {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && path == defaultEnvFile {
			return nil
		}
		return errors.Wrapf(err, "could not read env file %s", path)
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "could not load env file %s", path)
	}
	return nil
}
