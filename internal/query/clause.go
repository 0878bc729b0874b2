package query

import (
	"slices"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/google/uuid"
)

// Field is a public, API-facing attribute name. Stores map it to their own columns.
type Field string

const (
	FieldTitle            Field = "title"
	FieldSlug             Field = "slug"
	FieldShortDescription Field = "shortDescription"
	FieldContent          Field = "content"
	FieldAuthor           Field = "author"
	FieldPublicationDate  Field = "publicationDate"
	FieldCreatedAt        Field = "createdAt"
	FieldUpdatedAt        Field = "updatedAt"
	FieldName             Field = "name"
)

// Clause is one conjunct of a Filter. The set of clauses is closed:
// stores switch over the concrete types below.
type Clause interface {
	isClause()
}

type LocaleEquals struct {
	Locale content.Locale
}

// TagIn matches articles having at least one tag whose slug is in Slugs,
// within the article's own locale.
type TagIn struct {
	Slugs []string
}

// TextContains is a case-insensitive substring match on any of Fields.
type TextContains struct {
	Term   string
	Fields []Field
}

type PublishedNotNull struct{}

type SlugEquals struct {
	Slug string
}

type IDEquals struct {
	ID uuid.UUID
}

func (LocaleEquals) isClause()     {}
func (TagIn) isClause()            {}
func (TextContains) isClause()     {}
func (PublishedNotNull) isClause() {}
func (SlugEquals) isClause()       {}
func (IDEquals) isClause()         {}

// Filter is an immutable conjunction of clauses.
type Filter struct {
	clauses []Clause
}

func NewFilter(clauses ...Clause) Filter {
	cp := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		cp = append(cp, cloneClause(c))
	}
	return Filter{clauses: cp}
}

// With returns a new filter with the extra clause appended.
func (f Filter) With(c Clause) Filter {
	return NewFilter(append(f.Clauses(), c)...)
}

func (f Filter) Clauses() []Clause {
	out := make([]Clause, 0, len(f.clauses))
	for _, c := range f.clauses {
		out = append(out, cloneClause(c))
	}
	return out
}

func (f Filter) Locale() (content.Locale, bool) {
	for _, c := range f.clauses {
		if le, ok := c.(LocaleEquals); ok {
			return le.Locale, true
		}
	}
	return "", false
}

func (f Filter) PublishedOnly() bool {
	for _, c := range f.clauses {
		if _, ok := c.(PublishedNotNull); ok {
			return true
		}
	}
	return false
}

func cloneClause(c Clause) Clause {
	switch v := c.(type) {
	case TagIn:
		return TagIn{Slugs: slices.Clone(v.Slugs)}
	case TextContains:
		return TextContains{Term: v.Term, Fields: slices.Clone(v.Fields)}
	default:
		return c
	}
}
