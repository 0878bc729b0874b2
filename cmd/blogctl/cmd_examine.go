package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/factory"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/pg"
	"github.com/spf13/cobra"
)

func newExamineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examine",
		Short: "Print tables, columns and row counts of the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := factory.LoadEnv()
			if err != nil {
				return err
			}
			if cfg.Type != storage.PG || cfg.Pg == nil {
				return errors.New("examine needs STORAGE_TYPE=pg")
			}

			pool, err := pg.NewConnectionPool(cmd.Context(), *cfg.Pg)
			if err != nil {
				return err
			}
			defer pool.Close()

			tables, err := pool.Examine(cmd.Context())
			if err != nil {
				return err
			}
			writeTables(tables, cmd.OutOrStdout())
			return nil
		},
	}
}

func writeTables(tables []pg.TableInfo, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, t := range tables {
		fmt.Fprintf(tw, "\n=== %s (%d rows) ===\n", t.Name, t.Rows)
		fmt.Fprintln(tw, "Column\tType\tNullable")
		fmt.Fprintln(tw, strings.Join([]string{"---", "---", "---"}, "\t"))
		for _, c := range t.Columns {
			fmt.Fprintf(tw, "%s\t%s\t%t\n", c.Name, c.DataType, c.Nullable)
		}
	}

	tw.Flush()
}
