package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. Each subtest gets a fresh one.
type Factory func(t *testing.T) storage.ContentStore

var byPublicationDesc = query.Sort{Field: query.FieldPublicationDate, Direction: query.Desc}

func listing(locale content.Locale, extra ...query.Clause) query.Filter {
	return query.NewFilter(append([]query.Clause{
		query.LocaleEquals{Locale: locale},
		query.PublishedNotNull{},
	}, extra...)...)
}

func slugs(articles []content.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Slug)
	}
	return out
}

// Run exercises the behaviour every content store shares.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	setup := func(t *testing.T) (storage.ContentStore, Fixture) {
		s := newStore(t)
		t.Cleanup(s.Close)
		return s, Seed(t, ctx, s)
	}

	t.Run("published articles of a locale newest first", func(t *testing.T) {
		s, _ := setup(t)

		got, total, err := s.FindArticles(ctx, query.NewDescriptor(listing(content.LocaleEnglish), byPublicationDesc, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{SlugFutureTrading, SlugBitcoinHalving, SlugDefiGuide}, slugs(got))
	})

	t.Run("total covers the whole filtered set", func(t *testing.T) {
		s, _ := setup(t)

		got, total, err := s.FindArticles(ctx, query.NewDescriptor(listing(content.LocaleEnglish), byPublicationDesc, 2, 2))
		require.NoError(t, err)

		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{SlugDefiGuide}, slugs(got))
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		s, _ := setup(t)

		got, total, err := s.FindArticles(ctx, query.NewDescriptor(listing(content.LocaleEnglish), byPublicationDesc, 5, 10))
		require.NoError(t, err)

		assert.Equal(t, int64(3), total)
		assert.Empty(t, got)
	})

	t.Run("locales are isolated", func(t *testing.T) {
		s, _ := setup(t)

		got, total, err := s.FindArticles(ctx, query.NewDescriptor(listing(content.LocalePolish), byPublicationDesc, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, int64(2), total)
		assert.Equal(t, []string{SlugFutureTradePL, SlugBitcoinPL}, slugs(got))
		for _, a := range got {
			assert.Equal(t, content.LocalePolish, a.Locale)
		}
	})

	t.Run("tag filter excludes drafts", func(t *testing.T) {
		s, _ := setup(t)

		f := listing(content.LocaleEnglish, query.TagIn{Slugs: []string{"bitcoin"}})
		got, total, err := s.FindArticles(ctx, query.NewDescriptor(f, byPublicationDesc, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{SlugBitcoinHalving}, slugs(got))
	})

	t.Run("tag filter matches any of the slugs", func(t *testing.T) {
		s, _ := setup(t)

		f := listing(content.LocaleEnglish, query.TagIn{Slugs: []string{"trading", "blockchain"}})
		got, _, err := s.FindArticles(ctx, query.NewDescriptor(f, byPublicationDesc, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, []string{SlugFutureTrading, SlugDefiGuide}, slugs(got))
	})

	t.Run("tag filter stays inside the locale", func(t *testing.T) {
		s, _ := setup(t)

		f := listing(content.LocalePolish, query.TagIn{Slugs: []string{"bitcoin"}})
		got, _, err := s.FindArticles(ctx, query.NewDescriptor(f, byPublicationDesc, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, []string{SlugBitcoinPL}, slugs(got))
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		s, _ := setup(t)

		f := listing(content.LocaleEnglish, query.TextContains{
			Term:   "CRYPTO",
			Fields: []query.Field{query.FieldTitle, query.FieldShortDescription},
		})
		got, total, err := s.FindArticles(ctx, query.NewDescriptor(f, byPublicationDesc, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{SlugFutureTrading}, slugs(got))
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		s, _ := setup(t)

		f := listing(content.LocaleEnglish, query.TextContains{Term: "%", Fields: []query.Field{query.FieldTitle}})
		got, total, err := s.FindArticles(ctx, query.NewDescriptor(f, byPublicationDesc, 1, 10))
		require.NoError(t, err)

		assert.Zero(t, total)
		assert.Empty(t, got)
	})

	t.Run("sort by title ascending", func(t *testing.T) {
		s, _ := setup(t)

		sort := query.Sort{Field: query.FieldTitle, Direction: query.Asc}
		got, _, err := s.FindArticles(ctx, query.NewDescriptor(listing(content.LocaleEnglish), sort, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, []string{SlugBitcoinHalving, SlugFutureTrading, SlugDefiGuide}, slugs(got))
	})

	t.Run("articles carry tags and media", func(t *testing.T) {
		s, _ := setup(t)

		a, err := s.FindArticle(ctx, listing(content.LocaleEnglish, query.SlugEquals{Slug: SlugFutureTrading}))
		require.NoError(t, err)

		require.NotNil(t, a.FeaturedImage)
		assert.Equal(t, "/uploads/future-trading.jpg", a.FeaturedImage.URL)
		assert.ElementsMatch(t, []string{"cryptocurrency", "trading"}, tagSlugs(a.Tags))
		assert.Equal(t, []string{"cryptocurrency", "trading"}, a.SEO.Keywords)
		require.NotNil(t, a.PublishedAt)
	})

	t.Run("slug lookup respects locale", func(t *testing.T) {
		s, _ := setup(t)

		_, err := s.FindArticle(ctx, listing(content.LocalePolish, query.SlugEquals{Slug: SlugFutureTrading}))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("published lookup hides drafts", func(t *testing.T) {
		s, fx := setup(t)

		_, err := s.FindArticle(ctx, listing(content.LocaleEnglish, query.SlugEquals{Slug: SlugEthereumDraft}))
		assert.ErrorIs(t, err, storage.ErrNotFound)

		draft, err := s.FindArticle(ctx, query.NewFilter(query.IDEquals{ID: fx.Article(content.LocaleEnglish, SlugEthereumDraft).ID}))
		require.NoError(t, err)
		assert.False(t, draft.Published())
	})

	t.Run("duplicate slug in the same locale is rejected", func(t *testing.T) {
		s, fx := setup(t)

		dup := fx.Article(content.LocaleEnglish, SlugDefiGuide)
		dup.ID = uuid.Nil
		_, err := s.CreateArticle(ctx, dup)
		assert.ErrorIs(t, err, storage.ErrSlugTaken)

		other := dup
		other.Locale = content.LocalePolish
		other.Tags = nil
		_, err = s.CreateArticle(ctx, other)
		assert.NoError(t, err)
	})

	t.Run("update replaces fields and tags", func(t *testing.T) {
		s, fx := setup(t)

		a := fx.Article(content.LocaleEnglish, SlugDefiGuide)
		a.Title = "DeFi in Depth"
		a.Tags = []content.TagRef{fx.Tag(content.LocaleEnglish, "trading").Ref()}

		updated, err := s.UpdateArticle(ctx, a)
		require.NoError(t, err)

		assert.Equal(t, "DeFi in Depth", updated.Title)
		assert.Equal(t, []string{"trading"}, tagSlugs(updated.Tags))
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
	})

	t.Run("update of missing article", func(t *testing.T) {
		s, fx := setup(t)

		a := fx.Article(content.LocaleEnglish, SlugDefiGuide)
		require.NoError(t, s.DeleteArticle(ctx, a.ID))

		_, err := s.UpdateArticle(ctx, a)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.DeleteArticle(ctx, a.ID), storage.ErrNotFound)
	})

	t.Run("tags list with published article counts", func(t *testing.T) {
		s, _ := setup(t)

		f := query.NewFilter(query.LocaleEquals{Locale: content.LocaleEnglish})
		sort := query.Sort{Field: query.FieldName, Direction: query.Asc}
		got, total, err := s.FindTags(ctx, query.NewDescriptor(f, sort, 1, 50))
		require.NoError(t, err)

		assert.Equal(t, int64(4), total)
		counts := map[string]int{}
		var order []string
		for _, tag := range got {
			counts[tag.Slug] = tag.ArticleCount()
			order = append(order, tag.Slug)
		}
		assert.Equal(t, []string{"bitcoin", "blockchain", "cryptocurrency", "trading"}, order)
		assert.Equal(t, map[string]int{"bitcoin": 1, "blockchain": 1, "cryptocurrency": 2, "trading": 1}, counts)
	})

	t.Run("publishing updates tag counts", func(t *testing.T) {
		s, fx := setup(t)

		draft := fx.Article(content.LocaleEnglish, SlugEthereumDraft)
		now := time.Now().UTC().Truncate(time.Second)
		draft.PublishedAt = &now
		_, err := s.UpdateArticle(ctx, draft)
		require.NoError(t, err)

		tag, err := s.FindTag(ctx, query.NewFilter(
			query.LocaleEquals{Locale: content.LocaleEnglish},
			query.SlugEquals{Slug: "cryptocurrency"},
		))
		require.NoError(t, err)
		assert.Equal(t, 3, tag.ArticleCount())
	})

	t.Run("tag search matches name", func(t *testing.T) {
		s, _ := setup(t)

		f := query.NewFilter(
			query.LocaleEquals{Locale: content.LocaleEnglish},
			query.TextContains{Term: "chain", Fields: []query.Field{query.FieldName}},
		)
		got, total, err := s.FindTags(ctx, query.NewDescriptor(f, query.Sort{Field: query.FieldName, Direction: query.Asc}, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, "blockchain", got[0].Slug)
	})

	t.Run("resolve tags", func(t *testing.T) {
		s, fx := setup(t)

		refs, err := s.ResolveTags(ctx, content.LocaleEnglish, []string{"trading", "bitcoin"})
		require.NoError(t, err)
		assert.Equal(t, []content.TagRef{
			fx.Tag(content.LocaleEnglish, "trading").Ref(),
			fx.Tag(content.LocaleEnglish, "bitcoin").Ref(),
		}, refs)

		_, err = s.ResolveTags(ctx, content.LocalePolish, []string{"trading"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("duplicate tag slug", func(t *testing.T) {
		s, _ := setup(t)

		_, err := s.CreateTag(ctx, content.Tag{Name: "Again", Slug: "bitcoin", Locale: content.LocaleEnglish})
		assert.ErrorIs(t, err, storage.ErrSlugTaken)
	})

	t.Run("deleting a tag detaches it", func(t *testing.T) {
		s, fx := setup(t)

		tag := fx.Tag(content.LocaleEnglish, "trading")
		require.NoError(t, s.DeleteTag(ctx, tag.ID))

		a, err := s.FindArticle(ctx, query.NewFilter(query.IDEquals{ID: fx.Article(content.LocaleEnglish, SlugFutureTrading).ID}))
		require.NoError(t, err)
		assert.Equal(t, []string{"cryptocurrency"}, tagSlugs(a.Tags))

		_, err = s.FindTag(ctx, query.NewFilter(query.IDEquals{ID: tag.ID}))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("tag in use counts drafts", func(t *testing.T) {
		s, fx := setup(t)

		inUse, err := s.TagInUse(ctx, fx.Tag(content.LocaleEnglish, "bitcoin").ID)
		require.NoError(t, err)
		assert.True(t, inUse)

		defi, err := s.CreateTag(ctx, content.Tag{Name: "DeFi", Slug: "defi", Locale: content.LocaleEnglish})
		require.NoError(t, err)
		inUse, err = s.TagInUse(ctx, defi.ID)
		require.NoError(t, err)
		assert.False(t, inUse)

		draft := fx.Article(content.LocaleEnglish, SlugEthereumDraft)
		draft.Tags = append(draft.Tags, defi.Ref())
		_, err = s.UpdateArticle(ctx, draft)
		require.NoError(t, err)
		inUse, err = s.TagInUse(ctx, defi.ID)
		require.NoError(t, err)
		assert.True(t, inUse)

		_, err = s.TagInUse(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("relations never cross locales", func(t *testing.T) {
		s, fx := setup(t)

		tag := fx.Tag(content.LocaleEnglish, "trading")
		tag.Locale = content.LocalePolish
		tag.Slug = "trading-pl"
		moved, err := s.UpdateTag(ctx, tag)
		require.NoError(t, err)
		assert.Empty(t, moved.Articles)

		a, err := s.FindArticle(ctx, query.NewFilter(query.IDEquals{ID: fx.Article(content.LocaleEnglish, SlugFutureTrading).ID}))
		require.NoError(t, err)
		assert.Equal(t, []string{"cryptocurrency"}, tagSlugs(a.Tags))

		got, _, err := s.FindArticles(ctx, query.NewDescriptor(
			listing(content.LocalePolish, query.TagIn{Slugs: []string{"trading-pl"}}), byPublicationDesc, 1, 10))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		t.Cleanup(s.Close)
		assert.NoError(t, s.Ping(ctx))
	})
}

func tagSlugs(refs []content.TagRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Slug)
	}
	return out
}
