package es

import (
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const analyzerName = "blog_analyzer"

// ArticleDocument is the indexed shape of a published article.
type ArticleDocument struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Locale           string     `json:"locale"`
	Author           string     `json:"author"`
	ShortDescription string     `json:"short_description"`
	Content          string     `json:"content"`
	Tags             []string   `json:"tags"`
	TagNames         []string   `json:"tag_names"`
	SEOKeywords      []string   `json:"seo_keywords,omitempty"`
	PublicationDate  time.Time  `json:"publication_date"`
	PublishedAt      *time.Time `json:"published_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	IndexedAt        time.Time  `json:"indexed_at"`
}

type IndexBuilder struct {
	now func() time.Time
}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{now: time.Now}
}

func (b *IndexBuilder) mapToDocument(a content.Article) ArticleDocument {
	tags := make([]string, 0, len(a.Tags))
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, t.Slug)
		names = append(names, t.Name)
	}

	return ArticleDocument{
		ID:               a.ID.String(),
		Title:            a.Title,
		Slug:             a.Slug,
		Locale:           string(a.Locale),
		Author:           a.Author,
		ShortDescription: a.ShortDescription,
		Content:          PlainText(a.Content),
		Tags:             tags,
		TagNames:         names,
		SEOKeywords:      a.SEO.Keywords,
		PublicationDate:  a.PublicationDate,
		PublishedAt:      a.PublishedAt,
		UpdatedAt:        a.UpdatedAt,
		IndexedAt:        b.now().UTC(),
	}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				analyzerName: types.StandardAnalyzer{
					Stopwords: []string{"_none_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":                types.NewKeywordProperty(),
			"title":             b.textWithKeyword(analyzerName),
			"slug":              types.NewKeywordProperty(),
			"locale":            types.NewKeywordProperty(),
			"author":            b.textWithKeyword(""),
			"short_description": b.text(analyzerName),
			"content":           b.text(analyzerName),
			"tags":              types.NewKeywordProperty(),
			"tag_names":         b.textWithKeyword(analyzerName),
			"seo_keywords":      types.NewKeywordProperty(),
			"publication_date":  types.NewDateProperty(),
			"published_at":      types.NewDateProperty(),
			"updated_at":        types.NewDateProperty(),
			"indexed_at":        types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) text(analyzer string) types.Property {
	prop := types.NewTextProperty()
	if analyzer != "" {
		prop.Analyzer = &analyzer
	}
	return prop
}

func (b *IndexBuilder) textWithKeyword(analyzer string) types.Property {
	prop := types.NewTextProperty()
	if analyzer != "" {
		prop.Analyzer = &analyzer
	}
	prop.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return prop
}
