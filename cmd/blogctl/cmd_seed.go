package main

import (
	"fmt"

	"github.com/DjordjeVuckovic/wanda-blog/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var (
		file    string
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load tags and articles from a YAML file into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := seed.Load(file)
			if err != nil {
				return err
			}

			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := seed.NewSeeder(svc.tags, svc.articles).Seed(cmd.Context(), data, seed.Options{PublishAll: publish})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tags: %d created, %d skipped\narticles: %d created, %d skipped\n",
				res.TagsCreated, res.TagsSkipped, res.ArticlesCreated, res.ArticlesSkipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "db/seed/sample.yaml", "seed file")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish every seeded article")
	return cmd
}
