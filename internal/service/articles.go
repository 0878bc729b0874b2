package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/google/uuid"
)

const articleEntity = "Article"

type ArticleService struct {
	store   storage.ContentStore
	locales content.LocaleSet
	options
}

func NewArticleService(store storage.ContentStore, locales content.LocaleSet, opts ...Option) *ArticleService {
	return &ArticleService{
		store:   store,
		locales: locales,
		options: newOptions(opts),
	}
}

// List runs a listing descriptor. Featured and by-tag listings are the same
// call with a different descriptor.
func (s *ArticleService) List(ctx context.Context, d query.Descriptor) (Page[content.Article], error) {
	articles, total, err := s.store.FindArticles(ctx, d)
	if err != nil {
		return Page[content.Article]{}, fmt.Errorf("failed to list articles: %w", err)
	}
	return Page[content.Article]{Items: articles, Page: d.Page(), PageSize: d.Limit(), Total: total}, nil
}

// ByTag narrows d to articles carrying tagSlug in the descriptor's locale.
func (s *ArticleService) ByTag(ctx context.Context, tagSlug string, d query.Descriptor) (Page[content.Article], error) {
	if tagSlug == "" {
		return Page[content.Article]{}, apperr.NewValidation("tagSlug is required")
	}
	return s.List(ctx, d.WithFilter(d.Filter().With(query.TagIn{Slugs: []string{tagSlug}})))
}

// BySlug resolves a published article by (slug, locale).
func (s *ArticleService) BySlug(ctx context.Context, slug string, locale content.Locale) (content.Article, error) {
	a, err := s.store.FindArticle(ctx, query.NewFilter(
		query.SlugEquals{Slug: slug},
		query.LocaleEquals{Locale: locale},
		query.PublishedNotNull{},
	))
	if err != nil {
		return content.Article{}, storeErr(err, articleEntity, "find")
	}
	return a, nil
}

func (s *ArticleService) ByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (content.Article, error) {
	f := query.NewFilter(query.IDEquals{ID: id})
	if publishedOnly {
		f = f.With(query.PublishedNotNull{})
	}
	a, err := s.store.FindArticle(ctx, f)
	if err != nil {
		return content.Article{}, storeErr(err, articleEntity, "find")
	}
	return a, nil
}

func (s *ArticleService) Create(ctx context.Context, in content.ArticleInput) (content.Article, error) {
	a, err := s.fromInput(ctx, content.Article{}, in)
	if err != nil {
		return content.Article{}, err
	}
	if in.Publish {
		now := s.timestamp()
		a.PublishedAt = &now
	}

	created, err := s.store.CreateArticle(ctx, a)
	if err != nil {
		return content.Article{}, storeErr(err, articleEntity, "create")
	}

	s.metrics.RecordWrite("article", "create")
	s.mirror(ctx, created)
	slog.Info("Article created", "id", created.ID, "slug", created.Slug, "locale", created.Locale, "published", created.Published())
	return created, nil
}

// Update replaces the article's content. Publication state is kept; use
// Publish and Unpublish to change it.
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, in content.ArticleInput) (content.Article, error) {
	current, err := s.ByID(ctx, id, false)
	if err != nil {
		return content.Article{}, err
	}

	a, err := s.fromInput(ctx, current, in)
	if err != nil {
		return content.Article{}, err
	}

	updated, err := s.store.UpdateArticle(ctx, a)
	if err != nil {
		return content.Article{}, storeErr(err, articleEntity, "update")
	}

	s.metrics.RecordWrite("article", "update")
	s.mirror(ctx, updated)
	return updated, nil
}

func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteArticle(ctx, id); err != nil {
		return storeErr(err, articleEntity, "delete")
	}

	s.metrics.RecordWrite("article", "delete")
	s.unmirror(ctx, id)
	slog.Info("Article deleted", "id", id)
	return nil
}

func (s *ArticleService) Publish(ctx context.Context, id uuid.UUID) (content.Article, error) {
	return s.setPublished(ctx, id, true)
}

func (s *ArticleService) Unpublish(ctx context.Context, id uuid.UUID) (content.Article, error) {
	return s.setPublished(ctx, id, false)
}

func (s *ArticleService) setPublished(ctx context.Context, id uuid.UUID, publish bool) (content.Article, error) {
	a, err := s.ByID(ctx, id, false)
	if err != nil {
		return content.Article{}, err
	}
	if a.Published() == publish {
		return a, nil
	}

	op := "unpublish"
	a.PublishedAt = nil
	if publish {
		op = "publish"
		now := s.timestamp()
		a.PublishedAt = &now
	}

	updated, err := s.store.UpdateArticle(ctx, a)
	if err != nil {
		return content.Article{}, storeErr(err, articleEntity, op)
	}

	s.metrics.RecordWrite("article", op)
	s.mirror(ctx, updated)
	slog.Info("Article publication changed", "id", id, "operation", op)
	return updated, nil
}

// Reindex pushes every published article of every locale into the search
// index and returns how many were sent.
func (s *ArticleService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, errors.New("search index is not configured")
	}

	var all []content.Article
	for _, locale := range s.locales.Supported() {
		f := query.NewFilter(query.LocaleEquals{Locale: locale}, query.PublishedNotNull{})
		d := query.NewDescriptor(f, query.Sort{Field: query.FieldCreatedAt, Direction: query.Asc}, 1, 0)
		articles, _, err := s.store.FindArticles(ctx, d)
		if err != nil {
			return 0, fmt.Errorf("failed to load %s articles: %w", locale, err)
		}
		all = append(all, articles...)
	}

	if err := s.index.IndexBulk(ctx, all); err != nil {
		return 0, err
	}
	return len(all), nil
}

// fromInput validates in and applies it on top of base.
func (s *ArticleService) fromInput(ctx context.Context, base content.Article, in content.ArticleInput) (content.Article, error) {
	if err := s.validator.Validate(in); err != nil {
		return content.Article{}, err
	}

	locale, err := s.locales.Resolve(in.Locale)
	if err != nil {
		return content.Article{}, apperr.NewValidationWrap("invalid locale", err)
	}
	if in.Locale == "" && base.Locale != "" {
		locale = base.Locale
	}

	tags, err := s.store.ResolveTags(ctx, locale, in.Tags)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return content.Article{}, apperr.NewValidationWrap("unknown tag", err)
		}
		return content.Article{}, fmt.Errorf("failed to resolve tags: %w", err)
	}

	a := base
	a.Title = in.Title
	a.Slug = in.Slug
	a.Content = in.Content
	a.ShortDescription = in.ShortDescription
	a.Author = in.Author
	a.Locale = locale
	a.SEO = in.SEO
	a.FeaturedImage = in.FeaturedImage
	a.Tags = tags

	switch {
	case !in.PublicationDate.IsZero():
		a.PublicationDate = in.PublicationDate.UTC()
	case a.PublicationDate.IsZero():
		a.PublicationDate = s.timestamp()
	}
	return a, nil
}

func (s *ArticleService) mirror(ctx context.Context, a content.Article) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, a); err != nil {
		s.metrics.RecordMirrorFailure("index")
		slog.Error("Failed to mirror article into search index", "id", a.ID, "error", err)
	}
}

func (s *ArticleService) unmirror(ctx context.Context, id uuid.UUID) {
	if s.index == nil {
		return
	}
	if err := s.index.Remove(ctx, id); err != nil {
		s.metrics.RecordMirrorFailure("remove")
		slog.Error("Failed to remove article from search index", "id", id, "error", err)
	}
}
