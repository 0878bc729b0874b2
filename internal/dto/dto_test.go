package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/dto"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyCollection(t *testing.T) {
	body, err := json.Marshal(dto.NewArticleCollection(service.Page[content.Article]{Page: 1, PageSize: 10}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"data":[],"meta":{"pagination":{"page":1,"pageSize":10,"pageCount":0,"total":0}}}`, string(body))
}

func TestArticleCollectionMeta(t *testing.T) {
	page := service.Page[content.Article]{
		Items:    []content.Article{{Title: "a"}, {Title: "b"}},
		Page:     2,
		PageSize: 2,
		Total:    5,
	}

	c := dto.NewArticleCollection(page)

	assert.Len(t, c.Data, 2)
	assert.Equal(t, 3, c.Meta.Pagination.PageCount)
	assert.Equal(t, int64(5), c.Meta.Pagination.Total)
}

func TestNewArticle_Draft(t *testing.T) {
	a := dto.NewArticle(content.Article{
		ID:     uuid.Must(uuid.NewV7()),
		Title:  "Draft",
		Slug:   "draft",
		Locale: content.LocalePolish,
	})

	body, err := json.Marshal(dto.NewSingle(a))
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	data := decoded["data"]
	assert.Nil(t, data["publishedAt"])
	assert.Nil(t, data["featuredImage"])
	assert.Equal(t, []any{}, data["tags"])
	assert.Equal(t, "pl", data["locale"])
}

func TestNewArticle_Populated(t *testing.T) {
	now := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)
	tagID := uuid.Must(uuid.NewV7())

	a := dto.NewArticle(content.Article{
		Title:         "The Future of Cryptocurrency Trading",
		PublishedAt:   &now,
		FeaturedImage: &content.Media{URL: "/uploads/a.jpg", Width: 1200},
		SEO:           content.SEO{Title: "Future", Keywords: []string{"crypto"}},
		Tags:          []content.TagRef{{ID: tagID, Name: "Trading", Slug: "trading"}},
	})

	assert.Equal(t, []dto.TagSummary{{ID: tagID, Name: "Trading", Slug: "trading"}}, a.Tags)
	assert.Equal(t, "/uploads/a.jpg", a.FeaturedImage.URL)
	assert.Equal(t, &now, a.PublishedAt)

	body, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"seo":{"seoTitle":"Future","seoKeywords":["crypto"]}`)
}

func TestNewTag_ArticleCount(t *testing.T) {
	tag := dto.NewTag(content.Tag{
		Name: "Bitcoin",
		Slug: "bitcoin",
		Articles: []content.ArticleRef{
			{ID: uuid.Must(uuid.NewV7()), Slug: "one"},
			{ID: uuid.Must(uuid.NewV7()), Slug: "two"},
		},
	})

	assert.Equal(t, 2, tag.ArticleCount)
	assert.Len(t, tag.Articles, 2)

	empty := dto.NewTag(content.Tag{Name: "Empty"})
	assert.Zero(t, empty.ArticleCount)
	assert.NotNil(t, empty.Articles)
}
