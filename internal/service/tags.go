package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/pagination"
	"github.com/google/uuid"
)

const tagEntity = "Tag"

type TagService struct {
	store   storage.ContentStore
	locales content.LocaleSet
	options
}

func NewTagService(store storage.ContentStore, locales content.LocaleSet, opts ...Option) *TagService {
	return &TagService{
		store:   store,
		locales: locales,
		options: newOptions(opts),
	}
}

func (s *TagService) List(ctx context.Context, d query.Descriptor) (Page[content.Tag], error) {
	tags, total, err := s.store.FindTags(ctx, d)
	if err != nil {
		return Page[content.Tag]{}, fmt.Errorf("failed to list tags: %w", err)
	}
	return Page[content.Tag]{Items: tags, Page: d.Page(), PageSize: d.Limit(), Total: total}, nil
}

// Popular ranks every tag matching d by published article count, ties by
// name, and returns the requested page of that ranking.
func (s *TagService) Popular(ctx context.Context, d query.Descriptor) (Page[content.Tag], error) {
	tags, total, err := s.store.FindTags(ctx, d.Unpaged())
	if err != nil {
		return Page[content.Tag]{}, fmt.Errorf("failed to list tags: %w", err)
	}

	slices.SortStableFunc(tags, func(a, b content.Tag) int {
		if c := cmp.Compare(b.ArticleCount(), a.ArticleCount()); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	start, end := pagination.Window(len(tags), d.Page(), d.Limit())
	return Page[content.Tag]{Items: tags[start:end], Page: d.Page(), PageSize: d.Limit(), Total: total}, nil
}

func (s *TagService) BySlug(ctx context.Context, slug string, locale content.Locale) (content.Tag, error) {
	t, err := s.store.FindTag(ctx, query.NewFilter(
		query.SlugEquals{Slug: slug},
		query.LocaleEquals{Locale: locale},
	))
	if err != nil {
		return content.Tag{}, storeErr(err, tagEntity, "find")
	}
	return t, nil
}

func (s *TagService) ByID(ctx context.Context, id uuid.UUID) (content.Tag, error) {
	t, err := s.store.FindTag(ctx, query.NewFilter(query.IDEquals{ID: id}))
	if err != nil {
		return content.Tag{}, storeErr(err, tagEntity, "find")
	}
	return t, nil
}

func (s *TagService) Create(ctx context.Context, in content.TagInput) (content.Tag, error) {
	t, err := s.fromInput(content.Tag{}, in)
	if err != nil {
		return content.Tag{}, err
	}

	created, err := s.store.CreateTag(ctx, t)
	if err != nil {
		return content.Tag{}, storeErr(err, tagEntity, "create")
	}

	s.metrics.RecordWrite("tag", "create")
	slog.Info("Tag created", "id", created.ID, "slug", created.Slug, "locale", created.Locale)
	return created, nil
}

func (s *TagService) Update(ctx context.Context, id uuid.UUID, in content.TagInput) (content.Tag, error) {
	current, err := s.ByID(ctx, id)
	if err != nil {
		return content.Tag{}, err
	}
	if in.Locale != "" && content.Locale(in.Locale) != current.Locale {
		inUse, err := s.store.TagInUse(ctx, id)
		if err != nil {
			return content.Tag{}, storeErr(err, tagEntity, "update")
		}
		if inUse {
			return content.Tag{}, apperr.NewValidation("cannot move a tag referenced by articles to another locale")
		}
	}

	t, err := s.fromInput(current, in)
	if err != nil {
		return content.Tag{}, err
	}

	updated, err := s.store.UpdateTag(ctx, t)
	if err != nil {
		return content.Tag{}, storeErr(err, tagEntity, "update")
	}

	s.metrics.RecordWrite("tag", "update")
	s.remirror(ctx, updated.Articles)
	return updated, nil
}

// Delete removes the tag and detaches it from every article.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return storeErr(err, tagEntity, "delete")
	}

	s.metrics.RecordWrite("tag", "delete")
	s.remirror(ctx, current.Articles)
	slog.Info("Tag deleted", "id", id, "detached_articles", len(current.Articles))
	return nil
}

func (s *TagService) fromInput(base content.Tag, in content.TagInput) (content.Tag, error) {
	if err := s.validator.Validate(in); err != nil {
		return content.Tag{}, err
	}

	locale, err := s.locales.Resolve(in.Locale)
	if err != nil {
		return content.Tag{}, apperr.NewValidationWrap("invalid locale", err)
	}
	if in.Locale == "" && base.Locale != "" {
		locale = base.Locale
	}

	t := base
	t.Name = in.Name
	t.Slug = in.Slug
	t.Description = in.Description
	t.Locale = locale
	return t, nil
}

// remirror refreshes the indexed tag names of the given published articles.
func (s *TagService) remirror(ctx context.Context, refs []content.ArticleRef) {
	if s.index == nil || len(refs) == 0 {
		return
	}
	articles := make([]content.Article, 0, len(refs))
	for _, ref := range refs {
		a, err := s.store.FindArticle(ctx, query.NewFilter(query.IDEquals{ID: ref.ID}))
		if err != nil {
			slog.Error("Failed to load article for search index refresh", "id", ref.ID, "error", err)
			continue
		}
		articles = append(articles, a)
	}
	if err := s.index.IndexBulk(ctx, articles); err != nil {
		s.metrics.RecordMirrorFailure("reindex")
		slog.Error("Failed to refresh tagged articles in search index", "count", len(articles), "error", err)
	}
}
