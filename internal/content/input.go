package content

import (
	"time"
)

// ArticleInput is the write payload for creating or replacing an article.
type ArticleInput struct {
	Title            string    `json:"title" yaml:"title" validate:"required,max=255"`
	Slug             string    `json:"slug" yaml:"slug" validate:"required,slug,max=255"`
	Content          string    `json:"content" yaml:"content" validate:"required"`
	ShortDescription string    `json:"shortDescription" yaml:"shortDescription" validate:"max=1000"`
	Author           string    `json:"author" yaml:"author" validate:"max=255"`
	PublicationDate  time.Time `json:"publicationDate" yaml:"publicationDate"`
	Locale           string    `json:"locale" yaml:"locale"`
	SEO              SEO       `json:"seo" yaml:"seo"`
	FeaturedImage    *Media    `json:"featuredImage,omitempty" yaml:"featuredImage" validate:"omitempty"`
	// Tags are tag slugs in the article's locale.
	Tags []string `json:"tags" yaml:"tags" validate:"dive,slug"`
	// Publish is honoured on create only; use the publish endpoints afterwards.
	Publish bool `json:"publish" yaml:"publish"`
}

type TagInput struct {
	Name        string `json:"name" yaml:"name" validate:"required,max=100"`
	Slug        string `json:"slug" yaml:"slug" validate:"required,slug,max=100"`
	Description string `json:"description" yaml:"description" validate:"max=1000"`
	Locale      string `json:"locale" yaml:"locale"`
}
