package content

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	Locale      Locale
	// Articles holds the published articles referencing the tag.
	Articles  []ArticleRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArticleCount is derived from the populated published articles, never stored.
func (t Tag) ArticleCount() int {
	return len(t.Articles)
}

func (t Tag) Ref() TagRef {
	return TagRef{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

type TagRef struct {
	ID   uuid.UUID
	Name string
	Slug string
}
