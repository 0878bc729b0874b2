// Command blogctl runs operational tasks against the blog's storage and API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/wanda-blog/pkg/config/env"
	"github.com/spf13/cobra"
)

var (
	envPath string

	rootCmd = &cobra.Command{
		Use:           "blogctl",
		Short:         "Operational tooling for the wanda blog content API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envPath != "" {
				_ = os.Setenv("ENV_PATH", envPath)
			}
			if err := env.LoadDotEnv(env.Environment(), "cmd/blog_api/.env"); err != nil {
				slog.Info("Skipping .env ...", "error", err)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", "", "path of a .env file to load before running")

	rootCmd.AddCommand(
		newSeedCmd(),
		newExamineCmd(),
		newSmokeCmd(),
		newReindexCmd(),
		newDeployEnvCmd(),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
