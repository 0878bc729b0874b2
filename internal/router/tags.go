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

type TagRouter struct {
	g       *echo.Group
	tags    *service.TagService
	queries *query.Builder
	guard   *auth.Guard
}

func NewTagRouter(g *echo.Group, tags *service.TagService, queries *query.Builder, guard *auth.Guard) *TagRouter {
	return &TagRouter{
		g:       g,
		tags:    tags,
		queries: queries,
		guard:   guard,
	}
}

func (r *TagRouter) Bind() {
	t := r.g.Group("/tags")

	t.GET("", r.list)
	t.GET("/popular", r.popular)
	t.GET("/slug/:slug", r.bySlug)
	t.GET("/:id", r.byID)

	editor := r.guard.Require(auth.RoleEditor)
	t.POST("", r.create, editor)
	t.PUT("/:id", r.update, editor)
	t.DELETE("/:id", r.delete, r.guard.Require(auth.RoleAdmin))
}

// list godoc
// @Summary List tags of a locale
// @Tags tags
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Param locale query string false "Locale" default(en)
// @Param search query string false "Case-insensitive search over the name"
// @Param sort query string false "field:direction" default(name:asc)
// @Success 200 {object} dto.Collection[dto.Tag]
// @Failure 400 {object} apperr.Response
// @Router /tags [get]
func (r *TagRouter) list(c echo.Context) error {
	d, err := r.queries.Build(c.QueryParams(), query.TagListing)
	if err != nil {
		return err
	}
	page, err := r.tags.List(c.Request().Context(), d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewTagCollection(page))
}

// popular godoc
// @Summary Tags ordered by published article count
// @Tags tags
// @Produce json
// @Param limit query int false "Number of tags" default(10)
// @Param locale query string false "Locale" default(en)
// @Success 200 {object} dto.Collection[dto.Tag]
// @Failure 400 {object} apperr.Response
// @Router /tags/popular [get]
func (r *TagRouter) popular(c echo.Context) error {
	d, err := r.queries.Build(c.QueryParams(), query.PopularTags)
	if err != nil {
		return err
	}
	page, err := r.tags.Popular(c.Request().Context(), d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewTagCollection(page))
}

// bySlug godoc
// @Summary Resolve a tag by slug
// @Tags tags
// @Produce json
// @Param slug path string true "Tag slug"
// @Param locale query string false "Locale" default(en)
// @Success 200 {object} dto.Single[dto.Tag]
// @Failure 404 {object} apperr.Response
// @Router /tags/slug/{slug} [get]
func (r *TagRouter) bySlug(c echo.Context) error {
	slug, err := r.queries.Slug(c.Param("slug"), "slug")
	if err != nil {
		return err
	}
	locale, err := r.queries.Locale(c.QueryParams())
	if err != nil {
		return err
	}
	t, err := r.tags.BySlug(c.Request().Context(), slug, locale)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewTag(t)))
}

// byID godoc
// @Summary Resolve a tag by id
// @Tags tags
// @Produce json
// @Param id path string true "Tag id"
// @Success 200 {object} dto.Single[dto.Tag]
// @Failure 400 {object} apperr.Response
// @Failure 404 {object} apperr.Response
// @Router /tags/{id} [get]
func (r *TagRouter) byID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	t, err := r.tags.ByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewTag(t)))
}

// create godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.WriteRequest[content.TagInput] true "Tag"
// @Success 201 {object} dto.Single[dto.Tag]
// @Failure 400 {object} apperr.Response
// @Failure 409 {object} apperr.Response
// @Router /tags [post]
func (r *TagRouter) create(c echo.Context) error {
	in, err := bindWrite[content.TagInput](c)
	if err != nil {
		return err
	}
	t, err := r.tags.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.NewSingle(dto.NewTag(t)))
}

// update godoc
// @Summary Replace a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag id"
// @Param body body dto.WriteRequest[content.TagInput] true "Tag"
// @Success 200 {object} dto.Single[dto.Tag]
// @Failure 400 {object} apperr.Response
// @Failure 404 {object} apperr.Response
// @Failure 409 {object} apperr.Response
// @Router /tags/{id} [put]
func (r *TagRouter) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindWrite[content.TagInput](c)
	if err != nil {
		return err
	}
	t, err := r.tags.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSingle(dto.NewTag(t)))
}

// delete godoc
// @Summary Delete a tag and detach it from its articles
// @Tags tags
// @Security BearerAuth
// @Param id path string true "Tag id"
// @Success 204
// @Failure 404 {object} apperr.Response
// @Router /tags/{id} [delete]
func (r *TagRouter) delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := r.tags.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
