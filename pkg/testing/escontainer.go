package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultElasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

// Elasticsearch is a single-node cluster with security disabled, used as the search mirror.
type Elasticsearch struct {
	Container testcontainers.Container
	Address   string
}

// MustStartElasticsearch fails tb on error and terminates the container on cleanup.
// An empty image selects the default 8.x image.
func MustStartElasticsearch(ctx context.Context, tb testing.TB, image string) *Elasticsearch {
	tb.Helper()

	if image == "" {
		image = defaultElasticsearchImage
	}
	c, err := elasticsearch.Run(ctx, image,
		testcontainers.WithEnv(map[string]string{
			"xpack.security.enabled": "false",
			"discovery.type":         "single-node",
			"ES_JAVA_OPTS":           "-Xms512m -Xmx512m",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_cluster/health").
				WithPort("9200").
				WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("failed to start elasticsearch container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})

	endpoint, err := c.PortEndpoint(ctx, "9200/tcp", "http")
	if err != nil {
		tb.Fatalf("failed to resolve elasticsearch endpoint: %v", err)
	}
	return &Elasticsearch{Container: c, Address: endpoint}
}
