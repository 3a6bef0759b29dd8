package infra

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

type RedisConfig struct {
	Address       string `validate:"required,hostname_port"`
	Password      string
	Db            int `validate:"gte=0"`
	Tls           bool
	TlsSkipVerify bool
}

type LlmConfig struct {
	ApiKey     string `validate:"required"`
	BaseUrl    string `validate:"omitempty,url"`
	MaxRetries int    `validate:"gte=0,lte=10"`
	Timeout    time.Duration
}

type TelemetryConfiguration struct {
	Enabled         bool
	ApplicationName string
	SamplingRate    float64 `validate:"gte=0,lte=1"`
}

type BlobConfig struct {
	// UploadBucketUrl is a gocloud blob url such as file:///var/uploads or mem://. Empty disables archiving.
	UploadBucketUrl string
}

func (c BlobConfig) Enabled() bool {
	return c.UploadBucketUrl != ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig checks the validate struct tags of each given configuration.
func ValidateConfig(configs ...any) error {
	for _, config := range configs {
		if err := validate.Struct(config); err != nil {
			return errors.Wrapf(err, "invalid configuration %T", config)
		}
	}
	return nil
}
