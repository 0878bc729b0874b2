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

const articleSelect = `SELECT a.id, a.title, a.slug, a.content, a.short_description, a.author,
	a.publication_date, a.locale, a.published_at, a.seo, a.featured_image, a.created_at, a.updated_at
	FROM articles a`

func (s *Store) FindArticles(ctx context.Context, d query.Descriptor) ([]content.Article, int64, error) {
	st, err := articleStatement(d.Filter())
	if err != nil {
		return nil, 0, err
	}
	order, err := orderBy(d.Sort(), articleColumns, "a")
	if err != nil {
		return nil, 0, err
	}

	countSQL := "SELECT count(*) FROM articles a" + st.where()
	countArgs := append([]any(nil), st.args...)
	pageSQL := articleSelect + st.where() + order + st.page(d)

	var (
		total    int64
		articles []content.Article
	)
	// total and page must describe the same snapshot
	err = s.inSnapshot(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count articles: %w", err)
		}
		var err error
		articles, err = s.queryArticles(ctx, tx, pageSQL, st.args...)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (s *Store) FindArticle(ctx context.Context, f query.Filter) (content.Article, error) {
	return s.findArticle(ctx, s.pool.conn, f)
}

func (s *Store) findArticle(ctx context.Context, q querier, f query.Filter) (content.Article, error) {
	st, err := articleStatement(f)
	if err != nil {
		return content.Article{}, err
	}
	articles, err := s.queryArticles(ctx, q, articleSelect+st.where()+" ORDER BY a.id LIMIT 1", st.args...)
	if err != nil {
		return content.Article{}, err
	}
	if len(articles) == 0 {
		return content.Article{}, storage.ErrNotFound
	}
	return articles[0], nil
}

func (s *Store) CreateArticle(ctx context.Context, a content.Article) (content.Article, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.Must(uuid.NewV7())
	}
	now := s.timestamp()
	a.CreatedAt, a.UpdatedAt = now, now

	seo, image, err := marshalArticleJSON(a)
	if err != nil {
		return content.Article{}, err
	}

	var created content.Article
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO articles (id, title, slug, content, short_description, author,
			publication_date, locale, published_at, seo, featured_image, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			a.ID, a.Title, a.Slug, a.Content, a.ShortDescription, a.Author,
			a.PublicationDate, string(a.Locale), a.PublishedAt, seo, image, a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			return translate(err, "insert article")
		}
		if err := replaceArticleTags(ctx, tx, a.ID, a.Tags); err != nil {
			return err
		}
		created, err = s.findArticle(ctx, tx, query.NewFilter(query.IDEquals{ID: a.ID}))
		return err
	})
	if err != nil {
		return content.Article{}, err
	}
	return created, nil
}

func (s *Store) UpdateArticle(ctx context.Context, a content.Article) (content.Article, error) {
	a.UpdatedAt = s.timestamp()

	seo, image, err := marshalArticleJSON(a)
	if err != nil {
		return content.Article{}, err
	}

	var updated content.Article
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE articles SET title = $2, slug = $3, content = $4, short_description = $5,
			author = $6, publication_date = $7, locale = $8, published_at = $9, seo = $10, featured_image = $11,
			updated_at = $12
			WHERE id = $1`,
			a.ID, a.Title, a.Slug, a.Content, a.ShortDescription, a.Author,
			a.PublicationDate, string(a.Locale), a.PublishedAt, seo, image, a.UpdatedAt,
		)
		if err != nil {
			return translate(err, "update article")
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		if err := replaceArticleTags(ctx, tx, a.ID, a.Tags); err != nil {
			return err
		}
		updated, err = s.findArticle(ctx, tx, query.NewFilter(query.IDEquals{ID: a.ID}))
		return err
	})
	if err != nil {
		return content.Article{}, err
	}
	return updated, nil
}

func (s *Store) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.conn.Exec(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return translate(err, "delete article")
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func replaceArticleTags(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, tags []content.TagRef) error {
	if _, err := tx.Exec(ctx, "DELETE FROM article_tags WHERE article_id = $1", articleID); err != nil {
		return translate(err, "clear article tags")
	}
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool, len(tags))
	batch := &pgx.Batch{}
	for i, t := range tags {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		batch.Queue("INSERT INTO article_tags (article_id, tag_id, position) VALUES ($1, $2, $3)", articleID, t.ID, i)
	}

	results := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return translate(err, "attach tag")
		}
	}
	return results.Close()
}

func (s *Store) queryArticles(ctx context.Context, q querier, sql string, args ...any) ([]content.Article, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]content.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := loadArticleTags(ctx, q, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func scanArticle(rows pgx.Rows) (content.Article, error) {
	var (
		a       content.Article
		locale  string
		seoJSON []byte
		imgJSON []byte
	)
	if err := rows.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Content,
		&a.ShortDescription,
		&a.Author,
		&a.PublicationDate,
		&locale,
		&a.PublishedAt,
		&seoJSON,
		&imgJSON,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return content.Article{}, fmt.Errorf("failed to scan article: %w", err)
	}
	a.Locale = content.Locale(locale)

	if len(seoJSON) > 0 {
		if err := json.Unmarshal(seoJSON, &a.SEO); err != nil {
			return content.Article{}, fmt.Errorf("failed to unmarshal seo: %w", err)
		}
	}
	if len(imgJSON) > 0 {
		var m content.Media
		if err := json.Unmarshal(imgJSON, &m); err != nil {
			return content.Article{}, fmt.Errorf("failed to unmarshal featured image: %w", err)
		}
		a.FeaturedImage = &m
	}
	return a, nil
}

func loadArticleTags(ctx context.Context, q querier, articles []content.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(articles))
	index := make(map[uuid.UUID]int, len(articles))
	for i := range articles {
		articles[i].Tags = []content.TagRef{}
		ids = append(ids, articles[i].ID)
		index[articles[i].ID] = i
	}

	rows, err := q.Query(ctx, `SELECT at.article_id, t.id, t.name, t.slug
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		JOIN articles a ON a.id = at.article_id AND a.locale = t.locale
		WHERE at.article_id = ANY($1)
		ORDER BY at.article_id, at.position`, ids)
	if err != nil {
		return fmt.Errorf("failed to query article tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			articleID uuid.UUID
			ref       content.TagRef
		)
		if err := rows.Scan(&articleID, &ref.ID, &ref.Name, &ref.Slug); err != nil {
			return fmt.Errorf("failed to scan article tag: %w", err)
		}
		i := index[articleID]
		articles[i].Tags = append(articles[i].Tags, ref)
	}
	return rows.Err()
}

func marshalArticleJSON(a content.Article) ([]byte, []byte, error) {
	seo, err := json.Marshal(a.SEO)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal seo: %w", err)
	}
	if a.FeaturedImage == nil {
		return seo, nil, nil
	}
	image, err := json.Marshal(a.FeaturedImage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal featured image: %w", err)
	}
	return seo, image, nil
}
