package dto

import (
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/google/uuid"
)

type Article struct {
	ID               uuid.UUID      `json:"id"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Content          string         `json:"content"`
	ShortDescription string         `json:"shortDescription"`
	Author           string         `json:"author"`
	PublicationDate  time.Time      `json:"publicationDate"`
	Locale           string         `json:"locale"`
	PublishedAt      *time.Time     `json:"publishedAt"`
	SEO              content.SEO    `json:"seo"`
	FeaturedImage    *content.Media `json:"featuredImage"`
	Tags             []TagSummary   `json:"tags"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type TagSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func NewArticle(a content.Article) Article {
	tags := make([]TagSummary, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, TagSummary{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return Article{
		ID:               a.ID,
		Title:            a.Title,
		Slug:             a.Slug,
		Content:          a.Content,
		ShortDescription: a.ShortDescription,
		Author:           a.Author,
		PublicationDate:  a.PublicationDate,
		Locale:           string(a.Locale),
		PublishedAt:      a.PublishedAt,
		SEO:              a.SEO,
		FeaturedImage:    a.FeaturedImage,
		Tags:             tags,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func NewArticleCollection(p service.Page[content.Article]) Collection[Article] {
	return newCollection(p, NewArticle)
}
