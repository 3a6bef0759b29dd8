package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthinsights/health-insights-backend/cmd"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "health-insights",
		Short:         "Health Insights AI backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServerCmd(), newPromptsCmd())
	return rootCmd
}

func newServerCmd() *cobra.Command {
	var opts cmd.ServerOptions

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the chat API server",
		Long: `Run the chat API server.

Configuration is read from the environment, after loading the env file when it exists.
OPENAI_API_KEY is required and redis must be reachable on REDIS_ADDRESS (localhost:6379 by default).

Example:
  health-insights server --log-level debug --watch-prompts`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := cmd.RunServer(opts, cmd.CompiledConfig{Version: Version}); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to run the server: %+v\n", err)
				return err
			}
			return nil
		},
	}
	serverCmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load before reading the environment")
	serverCmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error), overrides LOG_LEVEL")
	serverCmd.Flags().BoolVar(&opts.WatchPrompts, "watch-prompts", false, "reload the prompt catalog when its file changes")
	return serverCmd
}

func newPromptsCmd() *cobra.Command {
	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage the prompt catalog",
	}

	var opts cmd.PromptCheckOptions
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the prompt catalog holds every prompt the chat workflow needs",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := cmd.RunPromptCheck(opts, c.OutOrStdout()); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid prompt catalog: %v\n", err)
				return err
			}
			return nil
		},
	}
	checkCmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load before reading the environment")
	checkCmd.Flags().StringVar(&opts.File, "file", "", "catalog file, defaults to PROMPTS_FILE")

	promptsCmd.AddCommand(checkCmd)
	return promptsCmd
}
