package dto

import (
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/google/uuid"
)

type Tag struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Locale      string    `json:"locale"`
	// ArticleCount counts published articles only.
	ArticleCount int              `json:"articleCount"`
	Articles     []ArticleSummary `json:"articles"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type ArticleSummary struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	PublicationDate time.Time      `json:"publicationDate"`
	FeaturedImage   *content.Media `json:"featuredImage"`
}

func NewTag(t content.Tag) Tag {
	articles := make([]ArticleSummary, 0, len(t.Articles))
	for _, a := range t.Articles {
		articles = append(articles, ArticleSummary{
			ID:              a.ID,
			Title:           a.Title,
			Slug:            a.Slug,
			PublicationDate: a.PublicationDate,
			FeaturedImage:   a.FeaturedImage,
		})
	}
	return Tag{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		Description:  t.Description,
		Locale:       string(t.Locale),
		ArticleCount: t.ArticleCount(),
		Articles:     articles,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func NewTagCollection(p service.Page[content.Tag]) Collection[Tag] {
	return newCollection(p, NewTag)
}
