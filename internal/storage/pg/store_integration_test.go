//go:build integration

package pg

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/storetest"
	pkgtesting "github.com/DjordjeVuckovic/wanda-blog/pkg/testing"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var (
	testCtx     context.Context
	testConnStr string
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.StartPostgres(testCtx, pkgtesting.WithDatabase("blog_store_test"))
	if err != nil {
		panic(err)
	}

	testConnStr = pg.ConnString
	code := m.Run()

	_ = pg.Terminate()
	os.Exit(code)
}

func newTestStore(t *testing.T) storage.ContentStore {
	t.Helper()

	pool, err := NewConnectionPool(testCtx, PoolConfig{ConnStr: testConnStr})
	require.NoError(t, err)

	_, err = pool.GetConn().Exec(testCtx, "TRUNCATE TABLE article_tags, articles, tags CASCADE")
	require.NoError(t, err)

	return NewStore(pool)
}

func TestStore(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestExamine(t *testing.T) {
	store := newTestStore(t).(*Store)
	storetest.Seed(t, testCtx, store)

	tables, err := store.pool.Examine(testCtx)
	require.NoError(t, err)

	byName := map[string]TableInfo{}
	for _, tbl := range tables {
		byName[tbl.Name] = tbl
	}
	require.Contains(t, byName, "articles")
	require.Contains(t, byName, "tags")
	require.Contains(t, byName, "article_tags")

	require.EqualValues(t, 6, byName["articles"].Rows)
	require.EqualValues(t, 7, byName["tags"].Rows)
	require.Equal(t, "id", byName["articles"].Columns[0].Name)
}

func TestFindArticles_TotalMatchesPageUnderWrites(t *testing.T) {
	store := newTestStore(t).(*Store)
	storetest.Seed(t, testCtx, store)

	ctx, cancel := context.WithCancel(testCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i := 0; gctx.Err() == nil && i < 200; i++ {
			published := time.Now().UTC()
			_, err := store.CreateArticle(gctx, content.Article{
				Title:           "Concurrent",
				Slug:            fmt.Sprintf("concurrent-%d", i),
				Content:         "<p>c</p>",
				PublicationDate: published,
				Locale:          content.LocaleEnglish,
				PublishedAt:     &published,
			})
			if err != nil && gctx.Err() == nil {
				return err
			}
		}
		return nil
	})

	filter := query.NewFilter(query.LocaleEquals{Locale: content.LocaleEnglish}, query.PublishedNotNull{})
	d := query.NewDescriptor(filter, query.Sort{Field: query.FieldCreatedAt, Direction: query.Asc}, 1, 1000)
	for range 50 {
		got, total, err := store.FindArticles(testCtx, d)
		require.NoError(t, err)
		require.EqualValues(t, total, len(got))
	}

	cancel()
	require.NoError(t, g.Wait())
}
