package smoke

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Check is one request against the API and the expectations on its answer.
type Check struct {
	Name   string
	Method string
	Path   string
	Status int
	Expect func(body []byte) error
}

// DefaultChecks covers the public read surface, the error envelope and the
// write guard. slug must be a published English article.
func DefaultChecks(slug, tagSlug string) []Check {
	return []Check{
		{Name: "list articles", Path: "/articles", Status: http.StatusOK, Expect: collection},
		{Name: "list articles pl", Path: "/articles?locale=pl", Status: http.StatusOK, Expect: collection},
		{Name: "paginate articles", Path: "/articles?page=1&limit=1", Status: http.StatusOK, Expect: pageSize(1)},
		{Name: "search articles", Path: "/articles?search=crypto", Status: http.StatusOK, Expect: collection},
		{Name: "featured articles", Path: "/articles/featured?limit=3", Status: http.StatusOK, Expect: collection},
		{Name: "article by slug", Path: "/articles/slug/" + slug, Status: http.StatusOK, Expect: single("slug", slug)},
		{Name: "articles by tag", Path: "/articles/tag/" + tagSlug, Status: http.StatusOK, Expect: collection},
		{Name: "missing article", Path: "/articles/slug/smoke-test-missing-article", Status: http.StatusNotFound, Expect: errorBody("NotFoundError")},
		{Name: "invalid page", Path: "/articles?page=0", Status: http.StatusBadRequest, Expect: errorBody("ValidationError")},
		{Name: "invalid limit", Path: "/articles?limit=abc", Status: http.StatusBadRequest, Expect: errorBody("ValidationError")},
		{Name: "invalid locale", Path: "/articles?locale=xx", Status: http.StatusBadRequest, Expect: errorBody("ValidationError")},
		{Name: "list tags", Path: "/tags", Status: http.StatusOK, Expect: collection},
		{Name: "popular tags", Path: "/tags/popular", Status: http.StatusOK, Expect: collection},
		{Name: "tag by slug", Path: "/tags/slug/" + tagSlug, Status: http.StatusOK, Expect: single("slug", tagSlug)},
		{Name: "write needs token", Method: http.MethodPost, Path: "/articles", Status: http.StatusUnauthorized, Expect: errorBody("UnauthorizedError")},
	}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Pagination *struct {
			Page      *int   `json:"page"`
			PageSize  *int   `json:"pageSize"`
			PageCount *int   `json:"pageCount"`
			Total     *int64 `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("body is not JSON: %w", err)
	}
	return env, nil
}

func collection(body []byte) error {
	_, err := collectionItems(body)
	return err
}

func collectionItems(body []byte) ([]json.RawMessage, error) {
	env, err := decode(body)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(env.Data, &items); err != nil || items == nil {
		return nil, fmt.Errorf("data is not an array")
	}
	if env.Meta == nil || env.Meta.Pagination == nil {
		return nil, fmt.Errorf("meta.pagination is missing")
	}
	p := env.Meta.Pagination
	if p.Page == nil || p.PageSize == nil || p.PageCount == nil || p.Total == nil {
		return nil, fmt.Errorf("meta.pagination is incomplete")
	}
	return items, nil
}

func pageSize(n int) func([]byte) error {
	return func(body []byte) error {
		items, err := collectionItems(body)
		if err != nil {
			return err
		}
		if len(items) > n {
			return fmt.Errorf("expected at most %d items, got %d", n, len(items))
		}
		return nil
	}
}

func single(field, want string) func([]byte) error {
	return func(body []byte) error {
		env, err := decode(body)
		if err != nil {
			return err
		}
		var data map[string]any
		if err := json.Unmarshal(env.Data, &data); err != nil || data == nil {
			return fmt.Errorf("data is not an object")
		}
		if got := fmt.Sprint(data[field]); got != want {
			return fmt.Errorf("data.%s = %q, want %q", field, got, want)
		}
		return nil
	}
}

func errorBody(name string) func([]byte) error {
	return func(body []byte) error {
		env, err := decode(body)
		if err != nil {
			return err
		}
		if string(env.Data) != "null" {
			return fmt.Errorf("data must be null on errors")
		}
		if env.Error == nil {
			return fmt.Errorf("error object is missing")
		}
		if env.Error.Name != name {
			return fmt.Errorf("error.name = %q, want %q", env.Error.Name, name)
		}
		return nil
	}
}
