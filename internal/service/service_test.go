package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/storetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

type fakeIndex struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	removed []uuid.UUID
	bulk    []content.Article
	err     error
}

func (f *fakeIndex) Index(_ context.Context, a content.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, a.ID)
	return f.err
}

func (f *fakeIndex) Remove(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndex) IndexBulk(_ context.Context, articles []content.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulk = append(f.bulk, articles...)
	return f.err
}

type env struct {
	ctx      context.Context
	fx       storetest.Fixture
	index    *fakeIndex
	articles *service.ArticleService
	tags     *service.TagService
}

func setup(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	store := in_mem.NewStore()
	fx := storetest.Seed(t, ctx, store)
	index := &fakeIndex{}

	opts := []service.Option{
		service.WithSearchIndex(index),
		service.WithClock(func() time.Time { return fixedNow }),
	}
	return env{
		ctx:      ctx,
		fx:       fx,
		index:    index,
		articles: service.NewArticleService(store, content.DefaultLocaleSet(), opts...),
		tags:     service.NewTagService(store, content.DefaultLocaleSet(), opts...),
	}
}

func listing(locale content.Locale, page, limit int) query.Descriptor {
	f := query.NewFilter(query.LocaleEquals{Locale: locale}, query.PublishedNotNull{})
	return query.NewDescriptor(f, query.Sort{Field: query.FieldPublicationDate, Direction: query.Desc}, page, limit)
}

func newInput(slug string, tags ...string) content.ArticleInput {
	return content.ArticleInput{
		Title:   "Stablecoins 101",
		Slug:    slug,
		Content: "<p>Pegged assets.</p>",
		Locale:  "en",
		Tags:    tags,
	}
}

func TestArticleService_List(t *testing.T) {
	e := setup(t)

	page, err := e.articles.List(e.ctx, listing(content.LocaleEnglish, 1, 2))
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Meta().PageCount)
	for _, a := range page.Items {
		assert.True(t, a.Published())
	}
}

func TestArticleService_ByTag(t *testing.T) {
	e := setup(t)

	page, err := e.articles.ByTag(e.ctx, "cryptocurrency", listing(content.LocaleEnglish, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, a := range page.Items {
		assert.True(t, a.HasTag("cryptocurrency"))
	}

	_, err = e.articles.ByTag(e.ctx, "", listing(content.LocaleEnglish, 1, 10))
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestArticleService_BySlug(t *testing.T) {
	e := setup(t)

	a, err := e.articles.BySlug(e.ctx, storetest.SlugFutureTrading, content.LocaleEnglish)
	require.NoError(t, err)
	assert.Equal(t, "The Future of Cryptocurrency Trading", a.Title)

	var nf *apperr.NotFoundError
	_, err = e.articles.BySlug(e.ctx, storetest.SlugFutureTrading, content.LocalePolish)
	assert.ErrorAs(t, err, &nf)

	_, err = e.articles.BySlug(e.ctx, storetest.SlugEthereumDraft, content.LocaleEnglish)
	assert.ErrorAs(t, err, &nf)
}

func TestArticleService_ByID(t *testing.T) {
	e := setup(t)
	draft := e.fx.Article(content.LocaleEnglish, storetest.SlugEthereumDraft)

	var nf *apperr.NotFoundError
	_, err := e.articles.ByID(e.ctx, draft.ID, true)
	assert.ErrorAs(t, err, &nf)

	got, err := e.articles.ByID(e.ctx, draft.ID, false)
	require.NoError(t, err)
	assert.Equal(t, draft.Slug, got.Slug)
}

func TestArticleService_Create(t *testing.T) {
	e := setup(t)

	in := newInput("stablecoins-101", "cryptocurrency")
	in.Publish = true
	a, err := e.articles.Create(e.ctx, in)
	require.NoError(t, err)

	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, fixedNow, *a.PublishedAt)
	assert.Equal(t, fixedNow, a.PublicationDate)
	assert.Equal(t, content.LocaleEnglish, a.Locale)
	assert.Equal(t, []uuid.UUID{a.ID}, e.index.indexed)

	got, err := e.articles.BySlug(e.ctx, "stablecoins-101", content.LocaleEnglish)
	require.NoError(t, err)
	assert.True(t, got.HasTag("cryptocurrency"))
}

func TestArticleService_CreateDraftByDefault(t *testing.T) {
	e := setup(t)

	a, err := e.articles.Create(e.ctx, newInput("draft-note"))
	require.NoError(t, err)
	assert.False(t, a.Published())

	var nf *apperr.NotFoundError
	_, err = e.articles.BySlug(e.ctx, "draft-note", content.LocaleEnglish)
	assert.ErrorAs(t, err, &nf)
}

func TestArticleService_CreateErrors(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name   string
		in     content.ArticleInput
		target any
	}{
		{name: "unknown tag", in: newInput("fresh", "no-such-tag"), target: new(*apperr.ValidationError)},
		{name: "tag of other locale", in: newInput("fresh", "kryptowaluty"), target: new(*apperr.ValidationError)},
		{name: "bad slug", in: newInput("Not A Slug"), target: new(*apperr.ValidationError)},
		{name: "missing title", in: content.ArticleInput{Slug: "x", Content: "y"}, target: new(*apperr.ValidationError)},
		{name: "unsupported locale", in: func() content.ArticleInput { in := newInput("fresh"); in.Locale = "de"; return in }(), target: new(*apperr.ValidationError)},
		{name: "duplicate slug", in: newInput(storetest.SlugDefiGuide), target: new(*apperr.ConflictError)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.articles.Create(e.ctx, tt.in)
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
		})
	}
	assert.Empty(t, e.index.indexed)
}

func TestArticleService_Update(t *testing.T) {
	e := setup(t)
	current := e.fx.Article(content.LocaleEnglish, storetest.SlugDefiGuide)

	in := newInput(storetest.SlugDefiGuide, "trading")
	in.Title = "DeFi in Depth"
	updated, err := e.articles.Update(e.ctx, current.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "DeFi in Depth", updated.Title)
	assert.Equal(t, current.PublishedAt, updated.PublishedAt)
	assert.Equal(t, current.PublicationDate, updated.PublicationDate)
	assert.True(t, updated.HasTag("trading"))
	assert.False(t, updated.HasTag("blockchain"))

	var nf *apperr.NotFoundError
	_, err = e.articles.Update(e.ctx, uuid.Must(uuid.NewV7()), in)
	assert.ErrorAs(t, err, &nf)
}

func TestArticleService_UpdateKeepsLocaleWhenOmitted(t *testing.T) {
	e := setup(t)
	current := e.fx.Article(content.LocalePolish, storetest.SlugBitcoinPL)

	updated, err := e.articles.Update(e.ctx, current.ID, content.ArticleInput{
		Title:   "Bitcoin od podstaw",
		Slug:    storetest.SlugBitcoinPL,
		Content: "<p>Nowa wersja.</p>",
		Tags:    []string{"bitcoin"},
	})
	require.NoError(t, err)

	assert.Equal(t, content.LocalePolish, updated.Locale)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, e.fx.Tag(content.LocalePolish, "bitcoin").ID, updated.Tags[0].ID)

	_, err = e.articles.BySlug(e.ctx, storetest.SlugBitcoinPL, content.LocalePolish)
	assert.NoError(t, err)
}

func TestArticleService_PublishUpdatesTagCount(t *testing.T) {
	e := setup(t)
	draft := e.fx.Article(content.LocaleEnglish, storetest.SlugEthereumDraft)

	before, err := e.tags.BySlug(e.ctx, "cryptocurrency", content.LocaleEnglish)
	require.NoError(t, err)
	assert.Equal(t, 2, before.ArticleCount())

	published, err := e.articles.Publish(e.ctx, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, fixedNow, *published.PublishedAt)

	after, err := e.tags.BySlug(e.ctx, "cryptocurrency", content.LocaleEnglish)
	require.NoError(t, err)
	assert.Equal(t, 3, after.ArticleCount())

	unpublished, err := e.articles.Unpublish(e.ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.Published())

	again, err := e.tags.BySlug(e.ctx, "cryptocurrency", content.LocaleEnglish)
	require.NoError(t, err)
	assert.Equal(t, 2, again.ArticleCount())
	assert.Equal(t, []uuid.UUID{draft.ID, draft.ID}, e.index.indexed)
}

func TestArticleService_PublishIsIdempotent(t *testing.T) {
	e := setup(t)
	live := e.fx.Article(content.LocaleEnglish, storetest.SlugFutureTrading)

	got, err := e.articles.Publish(e.ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.PublishedAt, got.PublishedAt)
	assert.Empty(t, e.index.indexed)
}

func TestArticleService_Delete(t *testing.T) {
	e := setup(t)
	a := e.fx.Article(content.LocaleEnglish, storetest.SlugBitcoinHalving)

	require.NoError(t, e.articles.Delete(e.ctx, a.ID))
	assert.Equal(t, []uuid.UUID{a.ID}, e.index.removed)

	var nf *apperr.NotFoundError
	assert.ErrorAs(t, e.articles.Delete(e.ctx, a.ID), &nf)
}

func TestArticleService_MirrorFailureDoesNotFailWrite(t *testing.T) {
	e := setup(t)
	e.index.err = errors.New("cluster unavailable")

	in := newInput("mirror-down")
	in.Publish = true
	_, err := e.articles.Create(e.ctx, in)
	require.NoError(t, err)

	_, err = e.articles.BySlug(e.ctx, "mirror-down", content.LocaleEnglish)
	assert.NoError(t, err)
}

func TestArticleService_Reindex(t *testing.T) {
	e := setup(t)

	n, err := e.articles.Reindex(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	for _, a := range e.index.bulk {
		assert.True(t, a.Published())
	}

	plain := service.NewArticleService(in_mem.NewStore(), content.DefaultLocaleSet())
	_, err = plain.Reindex(e.ctx)
	assert.Error(t, err)
}

func TestTagService_List(t *testing.T) {
	e := setup(t)

	d := query.NewDescriptor(
		query.NewFilter(query.LocaleEquals{Locale: content.LocalePolish}),
		query.Sort{Field: query.FieldName, Direction: query.Asc}, 1, 50,
	)
	page, err := e.tags.List(e.ctx, d)
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Total)
	for _, tag := range page.Items {
		assert.Equal(t, content.LocalePolish, tag.Locale)
	}
}

func TestTagService_Popular(t *testing.T) {
	e := setup(t)

	d := query.NewDescriptor(
		query.NewFilter(query.LocaleEquals{Locale: content.LocaleEnglish}),
		query.Sort{Field: query.FieldName, Direction: query.Asc}, 1, 2,
	)
	page, err := e.tags.Popular(e.ctx, d)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "cryptocurrency", page.Items[0].Slug)
	assert.Equal(t, 2, page.Items[0].ArticleCount())
	assert.Equal(t, "bitcoin", page.Items[1].Slug)
	assert.Equal(t, int64(4), page.Total)
}

func TestTagService_CreateAndDelete(t *testing.T) {
	e := setup(t)

	created, err := e.tags.Create(e.ctx, content.TagInput{Name: "DeFi", Slug: "defi", Locale: "en"})
	require.NoError(t, err)
	assert.Equal(t, 0, created.ArticleCount())

	var conflict *apperr.ConflictError
	_, err = e.tags.Create(e.ctx, content.TagInput{Name: "DeFi", Slug: "defi"})
	assert.ErrorAs(t, err, &conflict)

	var ve *apperr.ValidationError
	_, err = e.tags.Create(e.ctx, content.TagInput{Name: "Bad", Slug: "Bad Slug"})
	assert.ErrorAs(t, err, &ve)

	trading := e.fx.Tag(content.LocaleEnglish, "trading")
	require.NoError(t, e.tags.Delete(e.ctx, trading.ID))

	require.Len(t, e.index.bulk, 1)
	assert.Equal(t, storetest.SlugFutureTrading, e.index.bulk[0].Slug)
	assert.False(t, e.index.bulk[0].HasTag("trading"))

	var nf *apperr.NotFoundError
	assert.ErrorAs(t, e.tags.Delete(e.ctx, trading.ID), &nf)
}

func TestTagService_Update(t *testing.T) {
	e := setup(t)
	tag := e.fx.Tag(content.LocaleEnglish, "blockchain")

	updated, err := e.tags.Update(e.ctx, tag.ID, content.TagInput{Name: "Blockchain Tech", Slug: "blockchain-tech"})
	require.NoError(t, err)
	assert.Equal(t, "blockchain-tech", updated.Slug)
	assert.Equal(t, content.LocaleEnglish, updated.Locale)
	assert.Equal(t, 1, updated.ArticleCount())

	var ve *apperr.ValidationError
	_, err = e.tags.Update(e.ctx, tag.ID, content.TagInput{Name: "Blockchain", Slug: "blockchain", Locale: "pl"})
	assert.ErrorAs(t, err, &ve)
}

func TestTagService_UpdateRefusesLocaleMoveWithDrafts(t *testing.T) {
	e := setup(t)

	defi, err := e.tags.Create(e.ctx, content.TagInput{Name: "DeFi", Slug: "defi", Locale: "en"})
	require.NoError(t, err)
	draft, err := e.articles.Create(e.ctx, newInput("defi-draft", "defi"))
	require.NoError(t, err)
	require.False(t, draft.Published())

	var ve *apperr.ValidationError
	_, err = e.tags.Update(e.ctx, defi.ID, content.TagInput{Name: "DeFi", Slug: "defi", Locale: "pl"})
	require.ErrorAs(t, err, &ve)

	_, err = e.articles.Publish(e.ctx, draft.ID)
	require.NoError(t, err)
	tag, err := e.tags.BySlug(e.ctx, "defi", content.LocaleEnglish)
	require.NoError(t, err)
	assert.Equal(t, 1, tag.ArticleCount())

	_, err = e.tags.BySlug(e.ctx, "defi", content.LocalePolish)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestTagService_UpdateMovesUnusedTag(t *testing.T) {
	e := setup(t)

	defi, err := e.tags.Create(e.ctx, content.TagInput{Name: "DeFi", Slug: "defi", Locale: "en"})
	require.NoError(t, err)

	moved, err := e.tags.Update(e.ctx, defi.ID, content.TagInput{Name: "DeFi", Slug: "defi", Locale: "pl"})
	require.NoError(t, err)
	assert.Equal(t, content.LocalePolish, moved.Locale)
}
