package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const tagSelect = `SELECT t.id, t.name, t.slug, t.description, t.locale, t.created_at, t.updated_at FROM tags t`

func (s *Store) FindTags(ctx context.Context, d query.Descriptor) ([]content.Tag, int64, error) {
	st, err := tagStatement(d.Filter())
	if err != nil {
		return nil, 0, err
	}
	order, err := orderBy(d.Sort(), tagColumns, "t")
	if err != nil {
		return nil, 0, err
	}

	countSQL := "SELECT count(*) FROM tags t" + st.where()
	countArgs := append([]any(nil), st.args...)
	pageSQL := tagSelect + st.where() + order + st.page(d)

	var (
		total int64
		tags  []content.Tag
	)
	err = s.inSnapshot(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count tags: %w", err)
		}
		var err error
		tags, err = queryTags(ctx, tx, pageSQL, st.args...)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

func (s *Store) FindTag(ctx context.Context, f query.Filter) (content.Tag, error) {
	return findTag(ctx, s.pool.conn, f)
}

func findTag(ctx context.Context, q querier, f query.Filter) (content.Tag, error) {
	st, err := tagStatement(f)
	if err != nil {
		return content.Tag{}, err
	}
	tags, err := queryTags(ctx, q, tagSelect+st.where()+" ORDER BY t.id LIMIT 1", st.args...)
	if err != nil {
		return content.Tag{}, err
	}
	if len(tags) == 0 {
		return content.Tag{}, storage.ErrNotFound
	}
	return tags[0], nil
}

func (s *Store) CreateTag(ctx context.Context, t content.Tag) (content.Tag, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.Must(uuid.NewV7())
	}
	now := s.timestamp()

	_, err := s.pool.conn.Exec(ctx, `INSERT INTO tags (id, name, slug, description, locale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.Slug, t.Description, string(t.Locale), now, now,
	)
	if err != nil {
		return content.Tag{}, translate(err, "insert tag")
	}
	return s.FindTag(ctx, query.NewFilter(query.IDEquals{ID: t.ID}))
}

func (s *Store) UpdateTag(ctx context.Context, t content.Tag) (content.Tag, error) {
	tag, err := s.pool.conn.Exec(ctx, `UPDATE tags SET name = $2, slug = $3, description = $4, locale = $5, updated_at = $6
		WHERE id = $1`,
		t.ID, t.Name, t.Slug, t.Description, string(t.Locale), s.timestamp(),
	)
	if err != nil {
		return content.Tag{}, translate(err, "update tag")
	}
	if tag.RowsAffected() == 0 {
		return content.Tag{}, storage.ErrNotFound
	}
	return s.FindTag(ctx, query.NewFilter(query.IDEquals{ID: t.ID}))
}

// DeleteTag relies on the article_tags cascade to detach the tag.
func (s *Store) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.conn.Exec(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return translate(err, "delete tag")
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) TagInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists, used bool
	err := s.pool.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tags WHERE id = $1),
		EXISTS (SELECT 1 FROM article_tags WHERE tag_id = $1)`, id).Scan(&exists, &used)
	if err != nil {
		return false, fmt.Errorf("failed to check tag usage: %w", err)
	}
	if !exists {
		return false, storage.ErrNotFound
	}
	return used, nil
}

func (s *Store) ResolveTags(ctx context.Context, locale content.Locale, slugs []string) ([]content.TagRef, error) {
	if len(slugs) == 0 {
		return []content.TagRef{}, nil
	}

	rows, err := s.pool.conn.Query(ctx, "SELECT id, name, slug FROM tags WHERE locale = $1 AND slug = ANY($2)", string(locale), slugs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (content.TagRef, error) {
		var ref content.TagRef
		err := row.Scan(&ref.ID, &ref.Name, &ref.Slug)
		return ref, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tags: %w", err)
	}

	bySlug := make(map[string]content.TagRef, len(found))
	for _, ref := range found {
		bySlug[ref.Slug] = ref
	}

	refs := make([]content.TagRef, 0, len(slugs))
	for _, slug := range slugs {
		ref, ok := bySlug[slug]
		if !ok {
			return nil, fmt.Errorf("%w: tag %q in locale %s", storage.ErrNotFound, slug, locale)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func queryTags(ctx context.Context, q querier, sql string, args ...any) ([]content.Tag, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (content.Tag, error) {
		var (
			t      content.Tag
			locale string
		)
		err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &locale, &t.CreatedAt, &t.UpdatedAt)
		t.Locale = content.Locale(locale)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tag: %w", err)
	}

	if err := loadTagArticles(ctx, q, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// loadTagArticles attaches the published articles of each tag that share its locale.
func loadTagArticles(ctx context.Context, q querier, tags []content.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(tags))
	index := make(map[uuid.UUID]int, len(tags))
	for i := range tags {
		tags[i].Articles = []content.ArticleRef{}
		ids = append(ids, tags[i].ID)
		index[tags[i].ID] = i
	}

	rows, err := q.Query(ctx, `SELECT at.tag_id, a.id, a.title, a.slug, a.publication_date, a.featured_image
		FROM article_tags at
		JOIN articles a ON a.id = at.article_id
		JOIN tags t ON t.id = at.tag_id AND t.locale = a.locale
		WHERE at.tag_id = ANY($1) AND a.published_at IS NOT NULL
		ORDER BY at.tag_id, a.created_at, a.id`, ids)
	if err != nil {
		return fmt.Errorf("failed to query tag articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tagID   uuid.UUID
			ref     content.ArticleRef
			imgJSON []byte
		)
		if err := rows.Scan(&tagID, &ref.ID, &ref.Title, &ref.Slug, &ref.PublicationDate, &imgJSON); err != nil {
			return fmt.Errorf("failed to scan tag article: %w", err)
		}
		if len(imgJSON) > 0 {
			var m content.Media
			if err := json.Unmarshal(imgJSON, &m); err != nil {
				return fmt.Errorf("failed to unmarshal featured image: %w", err)
			}
			ref.FeaturedImage = &m
		}
		i := index[tagID]
		tags[i].Articles = append(tags[i].Articles, ref)
	}
	return rows.Err()
}
