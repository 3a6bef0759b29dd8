package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type envValue interface {
	string | int | bool | float64
}

// GetEnv reads and converts an environment variable, falling back to defaultValue when it is unset or empty.
// A value that cannot be converted panics: configuration errors must stop the process at startup.
func GetEnv[T envValue](envVarName string, defaultValue T) T {
	raw, ok := os.LookupEnv(envVarName)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	value, err := parseEnvValue[T](strings.TrimSpace(raw))
	if err != nil {
		panic(fmt.Sprintf("environment variable %s is not valid: %s", envVarName, err))
	}
	return value
}

func parseEnvValue[T envValue](raw string) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return out, fmt.Errorf("'%s' is not an integer", raw)
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return out, fmt.Errorf("'%s' is not a boolean", raw)
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, fmt.Errorf("'%s' is not a number", raw)
		}
		*p = v
	default:
		return out, fmt.Errorf("unsupported type %T", out)
	}
	return out, nil
}
