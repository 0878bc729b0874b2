package pg

import (
	"testing"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleStatement(t *testing.T) {
	f := query.NewFilter(
		query.LocaleEquals{Locale: content.LocaleEnglish},
		query.PublishedNotNull{},
		query.TagIn{Slugs: []string{"bitcoin", "trading"}},
		query.TextContains{Term: "crypto", Fields: []query.Field{query.FieldTitle, query.FieldContent}},
	)

	st, err := articleStatement(f)
	require.NoError(t, err)

	where := st.where()
	assert.Contains(t, where, "a.locale = $1")
	assert.Contains(t, where, "a.published_at IS NOT NULL")
	assert.Contains(t, where, "t.slug = ANY($2)")
	assert.Contains(t, where, "t.locale = a.locale")
	assert.Contains(t, where, `(a.title ILIKE $3 ESCAPE '\' OR a.content ILIKE $3 ESCAPE '\')`)
	assert.Equal(t, []any{"en", []string{"bitcoin", "trading"}, "%crypto%"}, st.args)
}

func TestArticleStatement_Empty(t *testing.T) {
	st, err := articleStatement(query.NewFilter())
	require.NoError(t, err)
	assert.Empty(t, st.where())
	assert.Empty(t, st.args)
}

func TestArticleStatement_UnknownSearchField(t *testing.T) {
	_, err := articleStatement(query.NewFilter(query.TextContains{Term: "x", Fields: []query.Field{query.FieldName}}))
	assert.Error(t, err)
}

func TestTagStatement(t *testing.T) {
	id := uuid.Must(uuid.NewV7())
	st, err := tagStatement(query.NewFilter(
		query.LocaleEquals{Locale: content.LocalePolish},
		query.IDEquals{ID: id},
	))
	require.NoError(t, err)

	assert.Equal(t, " WHERE t.locale = $1 AND t.id = $2", st.where())
	assert.Equal(t, []any{"pl", id}, st.args)
}

func TestTagStatement_RejectsArticleClauses(t *testing.T) {
	_, err := tagStatement(query.NewFilter(query.PublishedNotNull{}))
	assert.Error(t, err)

	_, err = tagStatement(query.NewFilter(query.TagIn{Slugs: []string{"a"}}))
	assert.Error(t, err)
}

func TestStatementPage(t *testing.T) {
	st := &statement{args: []any{"en"}}
	d := query.NewDescriptor(query.NewFilter(), query.Sort{}, 3, 10)

	assert.Equal(t, " LIMIT $2 OFFSET $3", st.page(d))
	assert.Equal(t, []any{"en", 10, 20}, st.args)

	st = &statement{}
	assert.Empty(t, st.page(d.Unpaged()))
	assert.Empty(t, st.args)
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name string
		sort query.Sort
		want string
	}{
		{
			name: "time column",
			sort: query.Sort{Field: query.FieldPublicationDate, Direction: query.Desc},
			want: " ORDER BY a.publication_date DESC, a.created_at ASC, a.id ASC",
		},
		{
			name: "text column is case folded",
			sort: query.Sort{Field: query.FieldTitle, Direction: query.Asc},
			want: " ORDER BY lower(a.title) ASC, a.created_at ASC, a.id ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderBy(tt.sort, articleColumns, "a")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := orderBy(query.Sort{Field: query.FieldContent}, tagColumns, "t")
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_sure\\`, escapeLike(`100% _sure\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
