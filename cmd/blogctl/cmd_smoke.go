package main

import (
	"fmt"

	"github.com/DjordjeVuckovic/wanda-blog/internal/smoke"
	"github.com/spf13/cobra"
)

func newSmokeCmd() *cobra.Command {
	var (
		baseURL     string
		articleSlug string
		tagSlug     string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run endpoint checks against a running API and fail on any mismatch",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := smoke.NewRunner(baseURL, smoke.WithConcurrency(concurrency))
			results := runner.Run(cmd.Context(), smoke.DefaultChecks(articleSlug, tagSlug))

			smoke.WriteTable(results, cmd.OutOrStdout())
			if failed := smoke.Failed(results); failed > 0 {
				return fmt.Errorf("%d smoke checks failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080/api", "API base URL including the prefix")
	cmd.Flags().StringVar(&articleSlug, "article", "future-of-cryptocurrency-trading", "slug of a published English article")
	cmd.Flags().StringVar(&tagSlug, "tag", "cryptocurrency", "slug of an English tag")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "checks run in parallel")
	return cmd
}
