package es

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paragraphs and headings stay separate words",
			in:   "<p>Trading has evolved.</p><h2>Key Trends</h2><ul><li>DEXs</li><li>Regulation</li></ul>",
			want: "Trading has evolved. Key Trends DEXs Regulation",
		},
		{
			name: "scripts are dropped",
			in:   "<p>Hello</p><script>alert(1)</script>",
			want: "Hello",
		},
		{
			name: "plain text passes through",
			in:   "  just   text ",
			want: "just text",
		},
		{
			name: "inline markup",
			in:   "<p>Buy <strong>low</strong>, sell <em>high</em></p>",
			want: "Buy low, sell high",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestMapToDocument(t *testing.T) {
	fixed := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)
	published := fixed.Add(-time.Hour)
	b := &IndexBuilder{now: func() time.Time { return fixed }}

	a := content.Article{
		ID:               uuid.Must(uuid.NewV7()),
		Title:            "The Future of Cryptocurrency Trading",
		Slug:             "future-of-cryptocurrency-trading",
		Content:          "<p>Cryptocurrency trading has evolved.</p>",
		ShortDescription: "Trends",
		Author:           "WandaExchange Team",
		PublicationDate:  published,
		Locale:           content.LocaleEnglish,
		PublishedAt:      &published,
		SEO:              content.SEO{Keywords: []string{"crypto"}},
		Tags: []content.TagRef{
			{ID: uuid.Must(uuid.NewV7()), Name: "Cryptocurrency", Slug: "cryptocurrency"},
			{ID: uuid.Must(uuid.NewV7()), Name: "Trading", Slug: "trading"},
		},
	}

	doc := b.mapToDocument(a)

	assert.Equal(t, a.ID.String(), doc.ID)
	assert.Equal(t, "en", doc.Locale)
	assert.Equal(t, "Cryptocurrency trading has evolved.", doc.Content)
	assert.Equal(t, []string{"cryptocurrency", "trading"}, doc.Tags)
	assert.Equal(t, []string{"Cryptocurrency", "Trading"}, doc.TagNames)
	assert.Equal(t, []string{"crypto"}, doc.SEOKeywords)
	assert.Equal(t, fixed, doc.IndexedAt)
	assert.Equal(t, &published, doc.PublishedAt)
}

func TestBuildMapping(t *testing.T) {
	m := NewIndexBuilder().buildMapping()

	for _, field := range []string{"id", "title", "slug", "locale", "content", "tags", "publication_date"} {
		assert.Contains(t, m.Properties, field)
	}
}

func TestClientConfigValidate(t *testing.T) {
	assert.Error(t, ClientConfig{IndexName: "articles"}.validate())
	assert.Error(t, ClientConfig{Addresses: []string{"http://localhost:9200"}}.validate())
	assert.NoError(t, ClientConfig{Addresses: []string{"http://localhost:9200"}, IndexName: "articles"}.validate())
}
