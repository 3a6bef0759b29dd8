package cmd

import (
	"fmt"
	"io"

	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/repositories"
)

type PromptCheckOptions struct {
	EnvFile string
	File    string
}

// RunPromptCheck loads the prompt catalog and checks that the chat workflow can run with it,
// for the prompt versions configured in the environment.
func RunPromptCheck(opts PromptCheckOptions, out io.Writer) error {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return err
	}
	serverConfig := readServerConfig()
	if opts.File != "" {
		serverConfig.promptsFile = opts.File
	}

	versions, err := serverConfig.versions()
	if err != nil {
		return err
	}
	if err := checkPromptCatalog(serverConfig.promptsFile, versions); err != nil {
		return err
	}

	fmt.Fprintf(out, "prompt catalog %s is valid\n", serverConfig.promptsFile)
	for _, ref := range models.RequiredPrompts {
		fmt.Fprintf(out, "  %s@%s\n", ref, versions.For(ref.Module))
	}
	return nil
}

func checkPromptCatalog(path string, versions models.PromptVersions) error {
	catalog, err := repositories.LoadPromptCatalog(path)
	if err != nil {
		return err
	}
	return catalog.Validate(models.RequiredPrompts, versions)
}
