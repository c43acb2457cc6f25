package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// Backend is the subset of the REST client used by the repositories.
type Backend interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (backend.Meta, error)
	DoMultipart(ctx context.Context, method, path string, fields map[string]string, files []backend.File, out interface{}) (backend.Meta, error)
	Download(ctx context.Context, path string) (backend.Blob, error)
}

// remoteRepository implements the CRUD calls shared by every backend resource.
type remoteRepository[T any] struct {
	client   Backend
	resource string
}

func newRemoteRepository[T any](client Backend, resource string) remoteRepository[T] {
	return remoteRepository[T]{client: client, resource: resource}
}

func (r remoteRepository[T]) path(parts ...string) string {
	p := "/" + r.resource
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (r remoteRepository[T]) list(ctx context.Context, query url.Values) (dto.Page[T], error) {
	var items []T
	meta, err := r.client.Do(ctx, http.MethodGet, r.path(), query, nil, &items)
	if err != nil {
		return dto.Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	if meta.Pagination == nil {
		return dto.SinglePage(items), nil
	}

	pagination := *meta.Pagination
	if pagination.Page <= 0 {
		pagination.Page = pageFrom(query)
	}
	return dto.Page[T]{Items: items, Pagination: pagination}, nil
}

func (r remoteRepository[T]) get(ctx context.Context, id models.ID) (T, error) {
	var item T
	_, err := r.client.Do(ctx, http.MethodGet, r.path(id.String()), nil, nil, &item)
	return item, err
}

func (r remoteRepository[T]) create(ctx context.Context, payload interface{}) (T, error) {
	var item T
	_, err := r.client.Do(ctx, http.MethodPost, r.path(), nil, payload, &item)
	return item, err
}

func (r remoteRepository[T]) update(ctx context.Context, method string, id models.ID, payload interface{}, suffix ...string) (T, error) {
	var item T
	parts := append([]string{id.String()}, suffix...)
	_, err := r.client.Do(ctx, method, r.path(parts...), nil, payload, &item)
	return item, err
}

func (r remoteRepository[T]) delete(ctx context.Context, id models.ID) error {
	_, err := r.client.Do(ctx, http.MethodDelete, r.path(id.String()), nil, nil, nil)
	return err
}

func pageQuery(page, limit int) url.Values {
	query := url.Values{}
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

func pageFrom(query url.Values) int {
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
