package pg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
)

var articleColumns = map[query.Field]string{
	query.FieldTitle:            "a.title",
	query.FieldSlug:             "a.slug",
	query.FieldShortDescription: "a.short_description",
	query.FieldContent:          "a.content",
	query.FieldAuthor:           "a.author",
	query.FieldPublicationDate:  "a.publication_date",
	query.FieldCreatedAt:        "a.created_at",
	query.FieldUpdatedAt:        "a.updated_at",
}

var tagColumns = map[query.Field]string{
	query.FieldName:      "t.name",
	query.FieldSlug:      "t.slug",
	query.FieldCreatedAt: "t.created_at",
	query.FieldUpdatedAt: "t.updated_at",
}

// textColumns are compared case-insensitively when sorting.
var textColumns = map[string]bool{
	"a.title":  true,
	"a.slug":   true,
	"a.author": true,
	"t.name":   true,
	"t.slug":   true,
}

// statement accumulates WHERE conditions and their positional arguments.
type statement struct {
	conds []string
	args  []any
}

func (s *statement) bind(v any) string {
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

func (s *statement) where() string {
	if len(s.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(s.conds, " AND ")
}

func (s *statement) page(d query.Descriptor) string {
	if !d.Paged() {
		return ""
	}
	return " LIMIT " + s.bind(d.Limit()) + " OFFSET " + s.bind(d.Offset())
}

func articleStatement(f query.Filter) (*statement, error) {
	st := &statement{}
	for _, c := range f.Clauses() {
		switch v := c.(type) {
		case query.LocaleEquals:
			st.conds = append(st.conds, "a.locale = "+st.bind(string(v.Locale)))
		case query.PublishedNotNull:
			st.conds = append(st.conds, "a.published_at IS NOT NULL")
		case query.SlugEquals:
			st.conds = append(st.conds, "a.slug = "+st.bind(v.Slug))
		case query.IDEquals:
			st.conds = append(st.conds, "a.id = "+st.bind(v.ID))
		case query.TagIn:
			st.conds = append(st.conds, `EXISTS (SELECT 1 FROM article_tags at JOIN tags t ON t.id = at.tag_id
				WHERE at.article_id = a.id AND t.locale = a.locale AND t.slug = ANY(`+st.bind(v.Slugs)+`))`)
		case query.TextContains:
			cond, err := containsCond(st, v, articleColumns)
			if err != nil {
				return nil, err
			}
			st.conds = append(st.conds, cond)
		default:
			return nil, fmt.Errorf("unsupported article clause %T", c)
		}
	}
	return st, nil
}

func tagStatement(f query.Filter) (*statement, error) {
	st := &statement{}
	for _, c := range f.Clauses() {
		switch v := c.(type) {
		case query.LocaleEquals:
			st.conds = append(st.conds, "t.locale = "+st.bind(string(v.Locale)))
		case query.SlugEquals:
			st.conds = append(st.conds, "t.slug = "+st.bind(v.Slug))
		case query.IDEquals:
			st.conds = append(st.conds, "t.id = "+st.bind(v.ID))
		case query.TextContains:
			cond, err := containsCond(st, v, tagColumns)
			if err != nil {
				return nil, err
			}
			st.conds = append(st.conds, cond)
		default:
			return nil, fmt.Errorf("unsupported tag clause %T", c)
		}
	}
	return st, nil
}

func containsCond(st *statement, c query.TextContains, columns map[query.Field]string) (string, error) {
	if len(c.Fields) == 0 {
		return "", fmt.Errorf("text search needs at least one field")
	}
	pattern := st.bind("%" + escapeLike(c.Term) + "%")

	ors := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		col, ok := columns[f]
		if !ok {
			return "", fmt.Errorf("cannot search field %q", f)
		}
		ors = append(ors, col+" ILIKE "+pattern+` ESCAPE '\'`)
	}
	return "(" + strings.Join(ors, " OR ") + ")", nil
}

// orderBy breaks ties by creation time and then id, so equal keys come back
// in creation order.
func orderBy(s query.Sort, columns map[query.Field]string, alias string) (string, error) {
	col, ok := columns[s.Field]
	if !ok {
		return "", fmt.Errorf("cannot sort by %q", s.Field)
	}
	if textColumns[col] {
		col = "lower(" + col + ")"
	}
	dir := "ASC"
	if s.Direction == query.Desc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", " + alias + ".created_at ASC, " + alias + ".id ASC", nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
