package smoke_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/auth"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/router"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/DjordjeVuckovic/wanda-blog/internal/smoke"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/storetest"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := in_mem.NewStore()
	storetest.Seed(t, context.Background(), store)

	locales := content.DefaultLocaleSet()
	queries := query.NewBuilder(query.BuilderConfig{Locales: locales})
	guard := auth.NewGuard(auth.Tokens{})

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	g := e.Group("/api")
	router.NewArticleRouter(g, service.NewArticleService(store, locales), queries, guard).Bind()
	router.NewTagRouter(g, service.NewTagService(store, locales), queries, guard).Bind()

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunner_DefaultChecksPass(t *testing.T) {
	srv := newBlogServer(t)

	runner := smoke.NewRunner(srv.URL+"/api/", smoke.WithHTTPClient(srv.Client()))
	results := runner.Run(context.Background(), smoke.DefaultChecks(storetest.SlugFutureTrading, "cryptocurrency"))

	for _, r := range results {
		assert.NoError(t, r.Err, r.Check.Name)
	}
	assert.Zero(t, smoke.Failed(results))

	var out bytes.Buffer
	smoke.WriteTable(results, &out)
	assert.Contains(t, out.String(), "15/15 checks passed")
}

func TestRunner_ReportsFailures(t *testing.T) {
	srv := newBlogServer(t)
	runner := smoke.NewRunner(srv.URL+"/api", smoke.WithConcurrency(1))

	results := runner.Run(context.Background(), []smoke.Check{
		{Name: "draft is hidden", Path: "/articles/slug/" + storetest.SlugEthereumDraft, Status: http.StatusOK},
		{Name: "tags", Path: "/tags", Status: http.StatusOK},
	})
	require.Len(t, results, 2)

	assert.False(t, results[0].Passed())
	assert.Equal(t, http.StatusNotFound, results[0].Status)
	assert.True(t, results[1].Passed())
	assert.Equal(t, 1, smoke.Failed(results))
}

func TestRunner_UnreachableHost(t *testing.T) {
	runner := smoke.NewRunner("http://127.0.0.1:1")
	results := runner.Run(context.Background(), []smoke.Check{{Name: "list", Path: "/articles", Status: http.StatusOK}})

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
