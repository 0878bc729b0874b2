package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/pagination"
)

const maxSearchLength = 200

var (
	pageKeys  = []string{"page", "pagination[page]"}
	limitKeys = []string{"limit", "pageSize", "pagination[pageSize]"}
	tagKeys   = []string{"tags", "tags[]"}
)

// Profile describes how a listing endpoint interprets its parameters.
type Profile struct {
	// DefaultLimit of zero falls back to the builder's default page size.
	DefaultLimit int
	DefaultSort  Sort
	SortFields   []Field
	SearchFields []Field
	// PublishedOnly adds PublishedNotNull to every descriptor.
	PublishedOnly bool
	// AllowTags enables the tags parameter.
	AllowTags bool
}

var (
	ArticleListing = Profile{
		DefaultSort:   Sort{Field: FieldPublicationDate, Direction: Desc},
		SortFields:    []Field{FieldPublicationDate, FieldTitle, FieldCreatedAt, FieldUpdatedAt},
		SearchFields:  []Field{FieldTitle, FieldShortDescription, FieldContent},
		PublishedOnly: true,
		AllowTags:     true,
	}
	// ArticlesByTag takes its tag from the path, not the tags parameter.
	ArticlesByTag = Profile{
		DefaultSort:   Sort{Field: FieldPublicationDate, Direction: Desc},
		SortFields:    []Field{FieldPublicationDate, FieldTitle, FieldCreatedAt, FieldUpdatedAt},
		SearchFields:  []Field{FieldTitle, FieldShortDescription, FieldContent},
		PublishedOnly: true,
	}
	FeaturedArticles = Profile{
		DefaultLimit:  5,
		DefaultSort:   Sort{Field: FieldPublicationDate, Direction: Desc},
		SortFields:    []Field{FieldPublicationDate},
		PublishedOnly: true,
	}
	TagListing = Profile{
		DefaultLimit: 50,
		DefaultSort:  Sort{Field: FieldName, Direction: Asc},
		SortFields:   []Field{FieldName, FieldCreatedAt, FieldUpdatedAt},
		SearchFields: []Field{FieldName},
	}
	PopularTags = Profile{
		DefaultLimit: 10,
		DefaultSort:  Sort{Field: FieldName, Direction: Asc},
		SortFields:   []Field{FieldName},
	}
)

type BuilderConfig struct {
	Locales      content.LocaleSet
	MaxLimit     int
	DefaultLimit int
}

// Builder turns raw query parameters into Descriptors. It holds the single
// default-locale decision for the whole API.
type Builder struct {
	locales      content.LocaleSet
	maxLimit     int
	defaultLimit int
}

func NewBuilder(cfg BuilderConfig) *Builder {
	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = pagination.PageMaxSize
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = pagination.PageDefaultSize
	}
	return &Builder{locales: cfg.Locales, maxLimit: maxLimit, defaultLimit: min(defaultLimit, maxLimit)}
}

func (b *Builder) MaxLimit() int {
	return b.maxLimit
}

func (b *Builder) DefaultLocale() content.Locale {
	return b.locales.Default()
}

// Build validates params against the profile. Nothing is coerced: a bad
// value is a *apperr.ValidationError.
func (b *Builder) Build(params url.Values, p Profile) (Descriptor, error) {
	page, err := positiveInt(params, pageKeys, 1)
	if err != nil {
		return Descriptor{}, err
	}

	limit, err := b.Limit(params, p.DefaultLimit)
	if err != nil {
		return Descriptor{}, err
	}
	if !pagination.InRange(page, limit) {
		return Descriptor{}, apperr.NewValidation(fmt.Sprintf("page %d is out of range for page size %d", page, limit))
	}

	locale, err := b.Locale(params)
	if err != nil {
		return Descriptor{}, err
	}

	clauses := []Clause{LocaleEquals{Locale: locale}}
	if p.PublishedOnly {
		clauses = append(clauses, PublishedNotNull{})
	}

	if p.AllowTags {
		if slugs := tagSlugs(params); len(slugs) > 0 {
			clauses = append(clauses, TagIn{Slugs: slugs})
		}
	}

	if len(p.SearchFields) > 0 {
		term := strings.TrimSpace(params.Get("search"))
		if len([]rune(term)) > maxSearchLength {
			return Descriptor{}, apperr.NewValidation(fmt.Sprintf("search must be at most %d characters", maxSearchLength))
		}
		if term != "" {
			clauses = append(clauses, TextContains{Term: term, Fields: p.SearchFields})
		}
	}

	sort := p.DefaultSort
	if raw := strings.TrimSpace(params.Get("sort")); raw != "" {
		sort, err = ParseSort(raw, p.SortFields)
		if err != nil {
			return Descriptor{}, apperr.NewValidationWrap("invalid sort", err)
		}
	}

	return NewDescriptor(NewFilter(clauses...), sort, page, limit), nil
}

// Locale resolves the locale parameter, falling back to the configured default.
func (b *Builder) Locale(params url.Values) (content.Locale, error) {
	locale, err := b.locales.Resolve(strings.TrimSpace(params.Get("locale")))
	if err != nil {
		return "", apperr.NewValidationWrap("invalid locale", err)
	}
	return locale, nil
}

// Limit parses limit/pageSize, bounded by the configured maximum.
func (b *Builder) Limit(params url.Values, def int) (int, error) {
	if def <= 0 || def > b.maxLimit {
		def = b.defaultLimit
	}
	limit, err := positiveInt(params, limitKeys, def)
	if err != nil {
		return 0, err
	}
	if limit > b.maxLimit {
		return 0, apperr.NewValidation(fmt.Sprintf("limit must not exceed %d", b.maxLimit))
	}
	return limit, nil
}

// Slug validates a required path parameter.
func (b *Builder) Slug(raw, name string) (string, error) {
	slug := strings.TrimSpace(raw)
	if slug == "" {
		return "", apperr.NewValidation(name + " is required")
	}
	return slug, nil
}

// ForSlug builds the lookup filter of the slug resolver.
func (b *Builder) ForSlug(slug string, locale content.Locale, publishedOnly bool) Filter {
	clauses := []Clause{SlugEquals{Slug: slug}, LocaleEquals{Locale: locale}}
	if publishedOnly {
		clauses = append(clauses, PublishedNotNull{})
	}
	return NewFilter(clauses...)
}

func positiveInt(params url.Values, keys []string, def int) (int, error) {
	key, raw := firstValue(params, keys)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.NewValidation(fmt.Sprintf("%s must be a positive integer, got %q", key, raw))
	}
	return n, nil
}

func firstValue(params url.Values, keys []string) (string, string) {
	for _, k := range keys {
		if v := strings.TrimSpace(params.Get(k)); v != "" {
			return k, v
		}
	}
	return keys[0], ""
}

func tagSlugs(params url.Values) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, k := range tagKeys {
		for _, v := range params[k] {
			for _, s := range strings.Split(v, ",") {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				if _, ok := seen[s]; ok {
					continue
				}
				seen[s] = struct{}{}
				out = append(out, s)
			}
		}
	}
	return out
}
