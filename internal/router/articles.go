package router

import (
	"net/http"

	"github.com/DjordjeVuckovic/wanda-blog/internal/auth"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/dto"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/labstack/echo/v4"
)

type ArticleRouter struct {
	g        *echo.Group
	articles *service.ArticleService
	queries  *query.Builder
	guard    *auth.Guard
}

func NewArticleRouter(g *echo.Group, articles *service.ArticleService, queries *query.Builder, guard *auth.Guard) *ArticleRouter {
	return &ArticleRouter{
		g:        g,
		articles: articles,
		queries:  queries,
		guard:    guard,
	}
}

func (r *ArticleRouter) Bind() {
	a := r.g.Group("/articles")

	a.GET("", r.list)
	a.GET("/featured", r.featured)
	a.GET("/slug/:slug", r.bySlug)
	a.GET("/tag/:tagSlug", r.byTag)
	a.GET("/:id", r.byID)

	editor := r.guard.Require(auth.RoleEditor)
	a.POST("", r.create, editor)
	a.PUT("/:id", r.update, editor)
	a.POST("/:id/publish", r.publish, editor)
	a.POST("/:id/unpublish", r.unpublish, editor)
	a.DELETE("/:id", r.delete, r.guard.Require(auth.RoleAdmin))
}

// list godoc
// @Summary List published articles
// @Tags articles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param locale query string false "Locale" default(en)
// @Param tags query []string false "Tag slugs, any of" collectionFormat(csv)
// @Param search query string false "Case-insensitive search over title, short description and content"
// @Param sort query string false "field:direction" default(publicationDate:desc)
// @Success 200 {object} dto.Collection[dto.Article]
// @Failure 400 {object} apperr.Response
// @Router /articles [get]
func (r *ArticleRouter) list(c echo.Context) error {
	d, err := r.queries.Build(c.QueryParams(), query.ArticleListing)
	if err != nil {
		return err
	}
	page, err := r.articles.List(c.Request().Context(), d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewArticleCollection(page))
}

// featured godoc
// @Summary Most recent published articles
// @Tags articles
// @Produce json
// @Param limit query int false "Number of articles" default(5)
// @Param locale query string false "Locale" default(en)
// @Success 200 {object} dto.Collection[dto.Article]
// @Failure 400 {object} apperr.Response
// @Router /articles/featured [get]
func (r *ArticleRouter) featured(c echo.Context) error {
	d, err := r.queries.Build(c.QueryParams(), query.FeaturedArticles)
	if err != nil {
		return err
	}
	page, err := r.articles.List(c.Request().Context(), d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewArticleCollection(page))
}

// bySlug godoc
// @Summary Resolve a published article by slug
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Param locale query string false "Locale" default(en)
// @Success 200 {object} dto.Single[dto.Article]
// @Failure 404 {object} apperr.Response
// @Router /articles/slug/{slug} [get]
func (r *ArticleRouter) bySlug(c echo.Context) error {
	slug, err := r.queries.Slug(c.Param("slug"), "slug")
	if err != nil {
		return err
	}
	locale, err := r.queries.Locale(c.QueryParams())
	if err != nil {
		return err
	}
	a, err := r.articles.BySlug(c.Request().Context(), slug, locale)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewArticle(a)))
}

// byTag godoc
// @Summary List published articles carrying a tag
// @Tags articles
// @Produce json
// @Param tagSlug path string true "Tag slug"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param locale query string false "Locale" default(en)
// @Success 200 {object} dto.Collection[dto.Article]
// @Failure 400 {object} apperr.Response
// @Router /articles/tag/{tagSlug} [get]
func (r *ArticleRouter) byTag(c echo.Context) error {
	tagSlug, err := r.queries.Slug(c.Param("tagSlug"), "tagSlug")
	if err != nil {
		return err
	}
	d, err := r.queries.Build(c.QueryParams(), query.ArticlesByTag)
	if err != nil {
		return err
	}
	page, err := r.articles.ByTag(c.Request().Context(), tagSlug, d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewArticleCollection(page))
}

// byID godoc
// @Summary Resolve a published article by id
// @Tags articles
// @Produce json
// @Param id path string true "Article id"
// @Success 200 {object} dto.Single[dto.Article]
// @Failure 400 {object} apperr.Response
// @Failure 404 {object} apperr.Response
// @Router /articles/{id} [get]
func (r *ArticleRouter) byID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := r.articles.ByID(c.Request().Context(), id, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewArticle(a)))
}

// create godoc
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.WriteRequest[content.ArticleInput] true "Article"
// @Success 201 {object} dto.Single[dto.Article]
// @Failure 400 {object} apperr.Response
// @Failure 409 {object} apperr.Response
// @Router /articles [post]
func (r *ArticleRouter) create(c echo.Context) error {
	in, err := bindWrite[content.ArticleInput](c)
	if err != nil {
		return err
	}
	a, err := r.articles.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.NewSingle(dto.NewArticle(a)))
}

// update godoc
// @Summary Replace an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article id"
// @Param body body dto.WriteRequest[content.ArticleInput] true "Article"
// @Success 200 {object} dto.Single[dto.Article]
// @Failure 400 {object} apperr.Response
// @Failure 404 {object} apperr.Response
// @Failure 409 {object} apperr.Response
// @Router /articles/{id} [put]
func (r *ArticleRouter) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindWrite[content.ArticleInput](c)
	if err != nil {
		return err
	}
	a, err := r.articles.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewArticle(a)))
}

// publish godoc
// @Summary Publish an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article id"
// @Success 200 {object} dto.Single[dto.Article]
// @Failure 404 {object} apperr.Response
// @Router /articles/{id}/publish [post]
func (r *ArticleRouter) publish(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := r.articles.Publish(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewArticle(a)))
}

// unpublish godoc
// @Summary Move an article back to draft
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article id"
// @Success 200 {object} dto.Single[dto.Article]
// @Failure 404 {object} apperr.Response
// @Router /articles/{id}/unpublish [post]
func (r *ArticleRouter) unpublish(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := r.articles.Unpublish(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewArticle(a)))
}

// delete godoc
// @Summary Delete an article
// @Tags articles
// @Security BearerAuth
// @Param id path string true "Article id"
// @Success 204
// @Failure 404 {object} apperr.Response
// @Router /articles/{id} [delete]
func (r *ArticleRouter) delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := r.articles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
