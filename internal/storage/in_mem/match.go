package in_mem

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
)

func matchArticle(a content.Article, clauses []query.Clause) (bool, error) {
	for _, c := range clauses {
		var ok bool
		switch v := c.(type) {
		case query.LocaleEquals:
			ok = a.Locale == v.Locale
		case query.PublishedNotNull:
			ok = a.Published()
		case query.SlugEquals:
			ok = a.Slug == v.Slug
		case query.IDEquals:
			ok = a.ID == v.ID
		case query.TagIn:
			ok = slices.ContainsFunc(v.Slugs, a.HasTag)
		case query.TextContains:
			var err error
			ok, err = containsAny(v, func(f query.Field) (string, error) { return articleText(a, f) })
			if err != nil {
				return false, err
			}
		default:
			return false, fmt.Errorf("unsupported article clause %T", c)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchTag(t content.Tag, clauses []query.Clause) (bool, error) {
	for _, c := range clauses {
		var ok bool
		switch v := c.(type) {
		case query.LocaleEquals:
			ok = t.Locale == v.Locale
		case query.SlugEquals:
			ok = t.Slug == v.Slug
		case query.IDEquals:
			ok = t.ID == v.ID
		case query.TextContains:
			var err error
			ok, err = containsAny(v, func(f query.Field) (string, error) { return tagText(t, f) })
			if err != nil {
				return false, err
			}
		default:
			return false, fmt.Errorf("unsupported tag clause %T", c)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func containsAny(tc query.TextContains, text func(query.Field) (string, error)) (bool, error) {
	term := strings.ToLower(tc.Term)
	for _, f := range tc.Fields {
		s, err := text(f)
		if err != nil {
			return false, err
		}
		if strings.Contains(strings.ToLower(s), term) {
			return true, nil
		}
	}
	return false, nil
}

func articleText(a content.Article, f query.Field) (string, error) {
	switch f {
	case query.FieldTitle:
		return a.Title, nil
	case query.FieldSlug:
		return a.Slug, nil
	case query.FieldShortDescription:
		return a.ShortDescription, nil
	case query.FieldContent:
		return a.Content, nil
	case query.FieldAuthor:
		return a.Author, nil
	default:
		return "", fmt.Errorf("field %q is not searchable on articles", f)
	}
}

func tagText(t content.Tag, f query.Field) (string, error) {
	switch f {
	case query.FieldName:
		return t.Name, nil
	case query.FieldSlug:
		return t.Slug, nil
	default:
		return "", fmt.Errorf("field %q is not searchable on tags", f)
	}
}

// sortArticles is stable, so ties keep creation order.
func sortArticles(items []content.Article, s query.Sort) {
	slices.SortStableFunc(items, func(x, y content.Article) int {
		var c int
		switch s.Field {
		case query.FieldTitle:
			c = compareText(x.Title, y.Title)
		case query.FieldCreatedAt:
			c = compareTime(x.CreatedAt, y.CreatedAt)
		case query.FieldUpdatedAt:
			c = compareTime(x.UpdatedAt, y.UpdatedAt)
		default:
			c = compareTime(x.PublicationDate, y.PublicationDate)
		}
		if s.Direction == query.Desc {
			c = -c
		}
		return c
	})
}

func sortTags(items []content.Tag, s query.Sort) {
	slices.SortStableFunc(items, func(x, y content.Tag) int {
		var c int
		switch s.Field {
		case query.FieldCreatedAt:
			c = compareTime(x.CreatedAt, y.CreatedAt)
		case query.FieldUpdatedAt:
			c = compareTime(x.UpdatedAt, y.UpdatedAt)
		default:
			c = compareText(x.Name, y.Name)
		}
		if s.Direction == query.Desc {
			c = -c
		}
		return c
	})
}

func compareText(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
