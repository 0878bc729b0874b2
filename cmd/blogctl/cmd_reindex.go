package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Bulk index every published article into Elasticsearch",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if !svc.indexed {
				return errors.New("reindex needs ES_ADDRESSES")
			}

			n, err := svc.articles.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d published articles\n", n)
			return nil
		},
	}
}
