package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres is a disposable PostgreSQL server with the blog schema applied.
type Postgres struct {
	Container  testcontainers.Container
	ConnString string
}

type postgresOptions struct {
	image    string
	database string
	user     string
	password string
	startup  time.Duration
}

type PostgresOption func(*postgresOptions)

func WithDatabase(name string) PostgresOption {
	return func(o *postgresOptions) {
		o.database = name
	}
}

// StartPostgres runs every db/migrations/*.up.sql as an init script, in name order.
func StartPostgres(ctx context.Context, opts ...PostgresOption) (*Postgres, error) {
	o := postgresOptions{
		image:    "postgres:17.5",
		database: "blog_test_db",
		user:     "test",
		password: "test",
		startup:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	schema, err := SchemaFiles()
	if err != nil {
		return nil, err
	}

	c, err := postgres.Run(ctx, o.image,
		postgres.WithDatabase(o.database),
		postgres.WithUsername(o.user),
		postgres.WithPassword(o.password),
		postgres.WithInitScripts(schema...),
		// postgres restarts once after init scripts, so the ready line shows up twice
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(o.startup),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &Postgres{Container: c, ConnString: connStr}, nil
}

func (p *Postgres) Terminate() error {
	return testcontainers.TerminateContainer(p.Container)
}

// SchemaFiles lists the up migrations shipped with the module.
func SchemaFiles() ([]string, error) {
	_, self, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(self), "..", "..", "db", "migrations")

	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}
