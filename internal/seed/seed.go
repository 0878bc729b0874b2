// Package seed loads sample content from YAML and writes it through the
// services, so seeded records obey the same validation as API writes.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"gopkg.in/yaml.v3"
)

type File struct {
	Tags     []content.TagInput     `yaml:"tags"`
	Articles []content.ArticleInput `yaml:"articles"`
}

func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse rejects unknown keys so typos in a seed file fail loudly.
func Parse(r io.Reader) (File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return file, nil
}

type Options struct {
	// PublishAll publishes every article regardless of its publish flag.
	PublishAll bool
}

type Result struct {
	TagsCreated     int
	TagsSkipped     int
	ArticlesCreated int
	ArticlesSkipped int
}

type Seeder struct {
	tags     *service.TagService
	articles *service.ArticleService
}

func NewSeeder(tags *service.TagService, articles *service.ArticleService) *Seeder {
	return &Seeder{tags: tags, articles: articles}
}

// Seed creates tags first, then articles. Records whose (slug, locale) already
// exists are skipped; any other failure stops the run.
func (s *Seeder) Seed(ctx context.Context, file File, opts Options) (Result, error) {
	var res Result

	for _, in := range file.Tags {
		_, err := s.tags.Create(ctx, in)
		switch {
		case err == nil:
			res.TagsCreated++
		case isConflict(err):
			res.TagsSkipped++
			slog.Info("Tag exists, skipping", "slug", in.Slug, "locale", in.Locale)
		default:
			return res, fmt.Errorf("tag %s (%s): %w", in.Slug, in.Locale, err)
		}
	}

	for _, in := range file.Articles {
		if opts.PublishAll {
			in.Publish = true
		}
		_, err := s.articles.Create(ctx, in)
		switch {
		case err == nil:
			res.ArticlesCreated++
		case isConflict(err):
			res.ArticlesSkipped++
			slog.Info("Article exists, skipping", "slug", in.Slug, "locale", in.Locale)
		default:
			return res, fmt.Errorf("article %s (%s): %w", in.Slug, in.Locale, err)
		}
	}

	return res, nil
}

func isConflict(err error) bool {
	var ce *apperr.ConflictError
	return errors.As(err, &ce)
}
