package query

import (
	"net/url"
	"testing"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	return NewBuilder(BuilderConfig{Locales: content.DefaultLocaleSet(), MaxLimit: 100})
}

func TestBuilder_Build_Defaults(t *testing.T) {
	b := newTestBuilder()

	d, err := b.Build(url.Values{}, ArticleListing)
	require.NoError(t, err)

	assert.Equal(t, 1, d.Page())
	assert.Equal(t, 10, d.Limit())
	assert.Equal(t, 0, d.Offset())
	assert.Equal(t, Sort{Field: FieldPublicationDate, Direction: Desc}, d.Sort())

	locale, ok := d.Filter().Locale()
	require.True(t, ok)
	assert.Equal(t, content.LocaleEnglish, locale)
	assert.True(t, d.Filter().PublishedOnly())
	assert.Len(t, d.Filter().Clauses(), 2)
}

func TestBuilder_Build_AllParams(t *testing.T) {
	b := newTestBuilder()
	params := url.Values{
		"page":   {"3"},
		"limit":  {"5"},
		"locale": {"pl"},
		"tags":   {"bitcoin", "defi", "bitcoin"},
		"search": {"  Crypto "},
		"sort":   {"title:ASC"},
	}

	d, err := b.Build(params, ArticleListing)
	require.NoError(t, err)

	assert.Equal(t, 3, d.Page())
	assert.Equal(t, 5, d.Limit())
	assert.Equal(t, 10, d.Offset())
	assert.Equal(t, Sort{Field: FieldTitle, Direction: Asc}, d.Sort())

	var (
		gotTags   TagIn
		gotSearch TextContains
	)
	for _, c := range d.Filter().Clauses() {
		switch v := c.(type) {
		case TagIn:
			gotTags = v
		case TextContains:
			gotSearch = v
		case LocaleEquals:
			assert.Equal(t, content.LocalePolish, v.Locale)
		}
	}
	assert.Equal(t, []string{"bitcoin", "defi"}, gotTags.Slugs)
	assert.Equal(t, "Crypto", gotSearch.Term)
	assert.Equal(t, []Field{FieldTitle, FieldShortDescription, FieldContent}, gotSearch.Fields)
}

func TestBuilder_Build_ScalarTagBecomesSingleElementSet(t *testing.T) {
	b := newTestBuilder()

	d, err := b.Build(url.Values{"tags": {"bitcoin"}}, ArticleListing)
	require.NoError(t, err)

	for _, c := range d.Filter().Clauses() {
		if v, ok := c.(TagIn); ok {
			assert.Equal(t, []string{"bitcoin"}, v.Slugs)
			return
		}
	}
	t.Fatal("expected a TagIn clause")
}

func TestBuilder_Build_PageSizeAliases(t *testing.T) {
	b := newTestBuilder()

	d, err := b.Build(url.Values{"pageSize": {"25"}}, ArticleListing)
	require.NoError(t, err)
	assert.Equal(t, 25, d.Limit())

	d, err = b.Build(url.Values{"pagination[page]": {"2"}, "pagination[pageSize]": {"4"}}, ArticleListing)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Page())
	assert.Equal(t, 4, d.Limit())
}

func TestBuilder_Build_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
	}{
		{name: "non numeric page", params: url.Values{"page": {"abc"}}},
		{name: "zero page", params: url.Values{"page": {"0"}}},
		{name: "negative limit", params: url.Values{"limit": {"-5"}}},
		{name: "fractional limit", params: url.Values{"limit": {"2.5"}}},
		{name: "limit above max", params: url.Values{"limit": {"101"}}},
		{name: "unsupported locale", params: url.Values{"locale": {"de"}}},
		{name: "unknown sort field", params: url.Values{"sort": {"views:desc"}}},
		{name: "bad sort direction", params: url.Values{"sort": {"title:up"}}},
		{name: "page overflowing offset", params: url.Values{"page": {"9223372036854775807"}, "limit": {"2"}}},
		{name: "page past max offset", params: url.Values{"page": {"21474838"}, "limit": {"100"}}},
		{name: "page beyond int", params: url.Values{"page": {"9223372036854775808"}}},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.params, ArticleListing)

			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestBuilder_Build_LastAddressablePage(t *testing.T) {
	d, err := newTestBuilder().Build(url.Values{"page": {"21474837"}, "limit": {"100"}}, ArticleListing)
	require.NoError(t, err)

	assert.Equal(t, 21474836*100, d.Offset())
}

func TestBuilder_Build_TagsIgnoredWhenProfileDisallows(t *testing.T) {
	b := newTestBuilder()

	d, err := b.Build(url.Values{"tags": {"bitcoin"}}, FeaturedArticles)
	require.NoError(t, err)

	for _, c := range d.Filter().Clauses() {
		_, isTag := c.(TagIn)
		assert.False(t, isTag)
	}
	assert.Equal(t, 5, d.Limit())
}

func TestBuilder_DescriptorIsImmutable(t *testing.T) {
	b := newTestBuilder()
	d, err := b.Build(url.Values{"tags": {"bitcoin"}}, ArticleListing)
	require.NoError(t, err)

	clauses := d.Filter().Clauses()
	for i, c := range clauses {
		if v, ok := c.(TagIn); ok {
			v.Slugs[0] = "tampered"
			clauses[i] = PublishedNotNull{}
		}
	}

	for _, c := range d.Filter().Clauses() {
		if v, ok := c.(TagIn); ok {
			assert.Equal(t, []string{"bitcoin"}, v.Slugs)
			return
		}
	}
	t.Fatal("TagIn clause lost")
}

func TestBuilder_Slug(t *testing.T) {
	b := newTestBuilder()

	slug, err := b.Slug(" bitcoin ", "tag slug")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", slug)

	_, err = b.Slug("  ", "tag slug")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tag slug is required", ve.Message)
}

func TestBuilder_ForSlug(t *testing.T) {
	b := newTestBuilder()

	f := b.ForSlug("future-of-cryptocurrency-trading", content.LocaleEnglish, true)

	assert.True(t, f.PublishedOnly())
	locale, ok := f.Locale()
	require.True(t, ok)
	assert.Equal(t, content.LocaleEnglish, locale)
	assert.Contains(t, f.Clauses(), Clause(SlugEquals{Slug: "future-of-cryptocurrency-trading"}))
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("publicationDate", ArticleListing.SortFields)
	require.NoError(t, err)
	assert.Equal(t, Sort{Field: FieldPublicationDate, Direction: Asc}, s)
	assert.Equal(t, "publicationDate:asc", s.String())
}

func TestDescriptor_Unpaged(t *testing.T) {
	d := NewDescriptor(NewFilter(), Sort{Field: FieldName, Direction: Asc}, 4, 10)
	u := d.Unpaged()

	assert.Equal(t, 30, d.Offset())
	assert.False(t, u.Paged())
	assert.Equal(t, 0, u.Offset())
	assert.Equal(t, 1, u.Page())
}

func TestBuild_ConfiguredDefaultLimit(t *testing.T) {
	b := NewBuilder(BuilderConfig{Locales: content.DefaultLocaleSet(), MaxLimit: 20, DefaultLimit: 15})

	d, err := b.Build(url.Values{}, ArticleListing)
	require.NoError(t, err)
	assert.Equal(t, 15, d.Limit())

	// Profiles with their own default keep it.
	d, err = b.Build(url.Values{}, FeaturedArticles)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Limit())

	// Tag listing defaults to 50, above the maximum, so the builder default wins.
	d, err = b.Build(url.Values{}, TagListing)
	require.NoError(t, err)
	assert.Equal(t, 15, d.Limit())
}
