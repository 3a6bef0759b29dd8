package api

import "time"

type Configuration struct {
	Env                 string
	AppName             string
	AppVersion          string
	Host                string `validate:"required"`
	Port                string `validate:"required,numeric"`
	RequestLoggingLevel string
	RequestTimeout      time.Duration `validate:"gt=0"`
	MaxUploadSizeMb     int           `validate:"gte=1"`
	RateLimitPerMinute  int           `validate:"gte=0"`
	CorsAllowedOrigins  []string
	EnablePrometheus    bool
}

// maxRequestBodySize leaves one megabyte for the multipart envelope and the message field.
func (conf Configuration) maxRequestBodySize() int64 {
	return int64(conf.MaxUploadSizeMb+1) * 1024 * 1024
}
