package content

import (
	"time"

	"github.com/google/uuid"
)

type Article struct {
	ID               uuid.UUID
	Title            string
	Slug             string
	Content          string
	ShortDescription string
	Author           string
	PublicationDate  time.Time
	Locale           Locale
	// PublishedAt is nil while the article is a draft.
	PublishedAt   *time.Time
	SEO           SEO
	FeaturedImage *Media
	Tags          []TagRef
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a Article) Published() bool {
	return a.PublishedAt != nil
}

func (a Article) Ref() ArticleRef {
	return ArticleRef{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		PublicationDate: a.PublicationDate,
		FeaturedImage:   a.FeaturedImage,
	}
}

// HasTag reports whether one of the article's tags has the given slug.
func (a Article) HasTag(slug string) bool {
	for _, t := range a.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

type SEO struct {
	Title       string   `json:"seoTitle,omitempty" yaml:"seoTitle"`
	Description string   `json:"seoDescription,omitempty" yaml:"seoDescription"`
	Keywords    []string `json:"seoKeywords,omitempty" yaml:"seoKeywords"`
}

// Media is a reference to an uploaded file, stored inline with the article.
type Media struct {
	URL             string `json:"url" yaml:"url" validate:"required"`
	AlternativeText string `json:"alternativeText,omitempty" yaml:"alternativeText"`
	Width           int    `json:"width,omitempty" yaml:"width"`
	Height          int    `json:"height,omitempty" yaml:"height"`
	MimeType        string `json:"mime,omitempty" yaml:"mime"`
}

// ArticleRef is the part of an article populated on the tag side of the relation.
type ArticleRef struct {
	ID              uuid.UUID
	Title           string
	Slug            string
	PublicationDate time.Time
	FeaturedImage   *Media
}
