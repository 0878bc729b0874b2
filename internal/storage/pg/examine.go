package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type Column struct {
	Name     string
	DataType string
	Nullable bool
}

type TableInfo struct {
	Name    string
	Columns []Column
	Rows    int64
}

const listColumnsSQL = `
SELECT table_name, column_name, data_type, is_nullable = 'YES'
FROM information_schema.columns
WHERE table_schema = 'public'
ORDER BY table_name, ordinal_position`

// Examine describes every table of the public schema with its exact row count.
func (p *ConnectionPool) Examine(ctx context.Context) ([]TableInfo, error) {
	rows, err := p.conn.Query(ctx, listColumnsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}

	var (
		tables []TableInfo
		table  string
		col    Column
	)
	_, err = pgx.ForEachRow(rows, []any{&table, &col.Name, &col.DataType, &col.Nullable}, func() error {
		if len(tables) == 0 || tables[len(tables)-1].Name != table {
			tables = append(tables, TableInfo{Name: table})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, col)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	for i := range tables {
		name := pgx.Identifier{tables[i].Name}.Sanitize()
		if err := p.conn.QueryRow(ctx, "SELECT count(*) FROM "+name).Scan(&tables[i].Rows); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", tables[i].Name, err)
		}
	}

	return tables, nil
}
