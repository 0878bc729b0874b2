package storage

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by single-record operations that match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrSlugTaken is returned when a (slug, locale) pair is already used.
	ErrSlugTaken = errors.New("slug already exists in locale")
)

// ArticleStore is the article side of the content store. Returned articles
// always carry their tags of the same locale and their featured image.
type ArticleStore interface {
	// FindArticles returns one page of matches and the total over the whole filtered set.
	FindArticles(ctx context.Context, d query.Descriptor) ([]content.Article, int64, error)
	FindArticle(ctx context.Context, f query.Filter) (content.Article, error)
	CreateArticle(ctx context.Context, a content.Article) (content.Article, error)
	UpdateArticle(ctx context.Context, a content.Article) (content.Article, error)
	DeleteArticle(ctx context.Context, id uuid.UUID) error
}

// TagStore is the tag side of the content store. Returned tags always carry
// their published articles of the same locale.
type TagStore interface {
	FindTags(ctx context.Context, d query.Descriptor) ([]content.Tag, int64, error)
	FindTag(ctx context.Context, f query.Filter) (content.Tag, error)
	CreateTag(ctx context.Context, t content.Tag) (content.Tag, error)
	UpdateTag(ctx context.Context, t content.Tag) (content.Tag, error)
	// DeleteTag also detaches the tag from every article.
	DeleteTag(ctx context.Context, id uuid.UUID) error
	// TagInUse reports whether any article, draft or published, references the tag.
	TagInUse(ctx context.Context, id uuid.UUID) (bool, error)
	// ResolveTags maps slugs to tags of the locale; any unknown slug is ErrNotFound.
	ResolveTags(ctx context.Context, locale content.Locale, slugs []string) ([]content.TagRef, error)
}

type ContentStore interface {
	ArticleStore
	TagStore
	Ping(ctx context.Context) error
	Close()
}

// SearchIndex mirrors published articles into a search engine.
type SearchIndex interface {
	Index(ctx context.Context, a content.Article) error
	Remove(ctx context.Context, id uuid.UUID) error
	IndexBulk(ctx context.Context, articles []content.Article) error
}

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StoreError string

const (
	ErrUnsupportedStore StoreError = "unsupported storage type: %s"
)

func (e StoreError) Error() string {
	return string(e)
}
