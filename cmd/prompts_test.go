package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthinsights/health-insights-backend/models"
)

func TestRunPromptCheck_ShippedCatalog(t *testing.T) {
	t.Setenv("PROMPT_VERSIONS", "")
	t.Setenv("DEFAULT_PROMPT_VERSION", "v1")

	var out bytes.Buffer
	err := RunPromptCheck(PromptCheckOptions{File: filepath.Join("..", "prompts", "prompts.json")}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "is valid")
	assert.Contains(t, out.String(), "qna/answer@v1")
}

func TestRunPromptCheck_MissingPrompt(t *testing.T) {
	t.Setenv("PROMPT_VERSIONS", "qna=v2")
	t.Setenv("DEFAULT_PROMPT_VERSION", "v1")

	var out bytes.Buffer
	err := RunPromptCheck(PromptCheckOptions{File: filepath.Join("..", "prompts", "prompts.json")}, &out)

	assert.ErrorIs(t, err, models.BadParameterError)
	assert.Contains(t, err.Error(), "prompt qna/answer version v2")
	assert.Empty(t, out.String())
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing default file is ignored", func(t *testing.T) {
		t.Chdir(t.TempDir())
		assert.NoError(t, loadEnvFile(""))
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "prod.env")))
	})

	t.Run("environment takes precedence", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("HI_TEST_FROM_FILE=file\nHI_TEST_ALREADY_SET=file\n"), 0o600))
		t.Setenv("HI_TEST_ALREADY_SET", "env")
		t.Setenv("HI_TEST_FROM_FILE", "")
		require.NoError(t, os.Unsetenv("HI_TEST_FROM_FILE"))

		require.NoError(t, loadEnvFile(path))

		assert.Equal(t, "file", os.Getenv("HI_TEST_FROM_FILE"))
		assert.Equal(t, "env", os.Getenv("HI_TEST_ALREADY_SET"))
		require.NoError(t, os.Unsetenv("HI_TEST_FROM_FILE"))
	})
}

func TestServerConfigValidate(t *testing.T) {
	config := ServerConfig{loggingFormat: "xml", promptsFile: "prompts.json"}
	assert.Error(t, config.Validate())

	config.loggingFormat = "json"
	assert.NoError(t, config.Validate())

	config.timezone = "Mars/Olympus"
	_, err := config.location()
	assert.Error(t, err)
}
