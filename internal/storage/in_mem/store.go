package in_mem

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/pagination"
	"github.com/google/uuid"
)

// Store keeps content in process memory. Writes are visible to every
// subsequent read as soon as they return.
type Store struct {
	lock sync.RWMutex

	articles     map[uuid.UUID]content.Article
	articleTags  map[uuid.UUID][]uuid.UUID
	articleOrder []uuid.UUID

	tags     map[uuid.UUID]content.Tag
	tagOrder []uuid.UUID

	now func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		articles:    make(map[uuid.UUID]content.Article),
		articleTags: make(map[uuid.UUID][]uuid.UUID),
		tags:        make(map[uuid.UUID]content.Tag),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) FindArticles(_ context.Context, d query.Descriptor) ([]content.Article, int64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	matched, err := s.matchArticles(d.Filter())
	if err != nil {
		return nil, 0, err
	}

	sortArticles(matched, d.Sort())

	total := int64(len(matched))
	start, end := pagination.Window(len(matched), d.Page(), d.Limit())

	return matched[start:end], total, nil
}

func (s *Store) FindArticle(_ context.Context, f query.Filter) (content.Article, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	matched, err := s.matchArticles(f)
	if err != nil {
		return content.Article{}, err
	}
	if len(matched) == 0 {
		return content.Article{}, storage.ErrNotFound
	}
	return matched[0], nil
}

func (s *Store) CreateArticle(_ context.Context, a content.Article) (content.Article, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.Must(uuid.NewV7())
	}
	if _, exists := s.articles[a.ID]; exists {
		return content.Article{}, fmt.Errorf("article %s already exists", a.ID)
	}
	if s.articleSlugTaken(a.Slug, a.Locale, uuid.Nil) {
		return content.Article{}, storage.ErrSlugTaken
	}

	tagIDs, err := s.tagIDs(a.Tags)
	if err != nil {
		return content.Article{}, err
	}

	now := s.now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	a.Tags = nil

	s.articles[a.ID] = cloneArticle(a)
	s.articleTags[a.ID] = tagIDs
	s.articleOrder = append(s.articleOrder, a.ID)

	slog.Debug("Article saved to in-memory storage", "id", a.ID, "slug", a.Slug, "locale", a.Locale)
	return s.populateArticle(s.articles[a.ID]), nil
}

func (s *Store) UpdateArticle(_ context.Context, a content.Article) (content.Article, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	current, ok := s.articles[a.ID]
	if !ok {
		return content.Article{}, storage.ErrNotFound
	}
	if s.articleSlugTaken(a.Slug, a.Locale, a.ID) {
		return content.Article{}, storage.ErrSlugTaken
	}

	tagIDs, err := s.tagIDs(a.Tags)
	if err != nil {
		return content.Article{}, err
	}

	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = s.now().UTC()
	a.Tags = nil

	s.articles[a.ID] = cloneArticle(a)
	s.articleTags[a.ID] = tagIDs

	return s.populateArticle(s.articles[a.ID]), nil
}

func (s *Store) DeleteArticle(_ context.Context, id uuid.UUID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.articles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.articles, id)
	delete(s.articleTags, id)
	s.articleOrder = slices.DeleteFunc(s.articleOrder, func(x uuid.UUID) bool { return x == id })
	return nil
}

func (s *Store) FindTags(_ context.Context, d query.Descriptor) ([]content.Tag, int64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	matched, err := s.matchTags(d.Filter())
	if err != nil {
		return nil, 0, err
	}

	sortTags(matched, d.Sort())

	total := int64(len(matched))
	start, end := pagination.Window(len(matched), d.Page(), d.Limit())

	return matched[start:end], total, nil
}

func (s *Store) FindTag(_ context.Context, f query.Filter) (content.Tag, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	matched, err := s.matchTags(f)
	if err != nil {
		return content.Tag{}, err
	}
	if len(matched) == 0 {
		return content.Tag{}, storage.ErrNotFound
	}
	return matched[0], nil
}

func (s *Store) CreateTag(_ context.Context, t content.Tag) (content.Tag, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if t.ID == uuid.Nil {
		t.ID = uuid.Must(uuid.NewV7())
	}
	if _, exists := s.tags[t.ID]; exists {
		return content.Tag{}, fmt.Errorf("tag %s already exists", t.ID)
	}
	if s.tagSlugTaken(t.Slug, t.Locale, uuid.Nil) {
		return content.Tag{}, storage.ErrSlugTaken
	}

	now := s.now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	t.Articles = nil

	s.tags[t.ID] = t
	s.tagOrder = append(s.tagOrder, t.ID)

	return s.populateTag(t), nil
}

func (s *Store) UpdateTag(_ context.Context, t content.Tag) (content.Tag, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	current, ok := s.tags[t.ID]
	if !ok {
		return content.Tag{}, storage.ErrNotFound
	}
	if s.tagSlugTaken(t.Slug, t.Locale, t.ID) {
		return content.Tag{}, storage.ErrSlugTaken
	}

	t.CreatedAt = current.CreatedAt
	t.UpdatedAt = s.now().UTC()
	t.Articles = nil
	s.tags[t.ID] = t

	return s.populateTag(t), nil
}

func (s *Store) DeleteTag(_ context.Context, id uuid.UUID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.tags[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tags, id)
	s.tagOrder = slices.DeleteFunc(s.tagOrder, func(x uuid.UUID) bool { return x == id })

	for articleID, ids := range s.articleTags {
		s.articleTags[articleID] = slices.DeleteFunc(ids, func(x uuid.UUID) bool { return x == id })
	}
	return nil
}

func (s *Store) TagInUse(_ context.Context, id uuid.UUID) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if _, ok := s.tags[id]; !ok {
		return false, storage.ErrNotFound
	}
	for _, ids := range s.articleTags {
		if slices.Contains(ids, id) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ResolveTags(_ context.Context, locale content.Locale, slugs []string) ([]content.TagRef, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	refs := make([]content.TagRef, 0, len(slugs))
	for _, slug := range slugs {
		found := false
		for _, id := range s.tagOrder {
			t := s.tags[id]
			if t.Slug == slug && t.Locale == locale {
				refs = append(refs, t.Ref())
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: tag %q in locale %s", storage.ErrNotFound, slug, locale)
		}
	}
	return refs, nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() {}

func (s *Store) matchArticles(f query.Filter) ([]content.Article, error) {
	clauses := f.Clauses()
	var out []content.Article
	for _, id := range s.articleOrder {
		a := s.populateArticle(s.articles[id])
		ok, err := matchArticle(a, clauses)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) matchTags(f query.Filter) ([]content.Tag, error) {
	clauses := f.Clauses()
	var out []content.Tag
	for _, id := range s.tagOrder {
		t := s.populateTag(s.tags[id])
		ok, err := matchTag(t, clauses)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) populateArticle(a content.Article) content.Article {
	a = cloneArticle(a)
	a.Tags = make([]content.TagRef, 0, len(s.articleTags[a.ID]))
	for _, tagID := range s.articleTags[a.ID] {
		if t, ok := s.tags[tagID]; ok && t.Locale == a.Locale {
			a.Tags = append(a.Tags, t.Ref())
		}
	}
	return a
}

func (s *Store) populateTag(t content.Tag) content.Tag {
	t.Articles = []content.ArticleRef{}
	for _, articleID := range s.articleOrder {
		a := s.articles[articleID]
		if !a.Published() || a.Locale != t.Locale {
			continue
		}
		if slices.Contains(s.articleTags[articleID], t.ID) {
			t.Articles = append(t.Articles, cloneArticle(a).Ref())
		}
	}
	return t
}

func (s *Store) tagIDs(refs []content.TagRef) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		if _, ok := s.tags[ref.ID]; !ok {
			return nil, fmt.Errorf("%w: tag %s", storage.ErrNotFound, ref.ID)
		}
		if !slices.Contains(ids, ref.ID) {
			ids = append(ids, ref.ID)
		}
	}
	return ids, nil
}

func (s *Store) articleSlugTaken(slug string, locale content.Locale, self uuid.UUID) bool {
	for id, a := range s.articles {
		if id != self && a.Slug == slug && a.Locale == locale {
			return true
		}
	}
	return false
}

func (s *Store) tagSlugTaken(slug string, locale content.Locale, self uuid.UUID) bool {
	for id, t := range s.tags {
		if id != self && t.Slug == slug && t.Locale == locale {
			return true
		}
	}
	return false
}

func cloneArticle(a content.Article) content.Article {
	if a.PublishedAt != nil {
		p := *a.PublishedAt
		a.PublishedAt = &p
	}
	if a.FeaturedImage != nil {
		m := *a.FeaturedImage
		a.FeaturedImage = &m
	}
	a.SEO.Keywords = slices.Clone(a.SEO.Keywords)
	a.Tags = slices.Clone(a.Tags)
	return a
}

var _ storage.ContentStore = (*Store)(nil)
