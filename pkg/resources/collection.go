package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aretw0/folio/pkg/transport"
)

// ErrScopeRequired is returned when a list needs a parent identifier and got none.
var ErrScopeRequired = errors.New("parent scope required")

// collection implements the CRUD routes shared by every resource.
// Collection routes carry a trailing slash ("/novels/"), item routes do not.
type collection[T any] struct {
	client *transport.Client
	base   string
}

func (c collection[T]) list(ctx context.Context, query url.Values) ([]T, error) {
	var out []T
	if _, err := c.client.Do(ctx, transport.Request{Method: http.MethodGet, Path: c.base + "/", Query: query}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c collection[T]) scopedList(ctx context.Context, param, scope string, required bool) ([]T, error) {
	if required && scope == "" {
		return nil, fmt.Errorf("%w: %s", ErrScopeRequired, param)
	}
	q, err := transport.Query(param, scope)
	if err != nil {
		return nil, err
	}
	return c.list(ctx, q)
}

func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	p, err := c.item(id, "")
	if err != nil {
		return nil, err
	}
	out := new(T)
	if _, err := c.client.Do(ctx, transport.Request{Method: http.MethodGet, Path: p}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c collection[T]) create(ctx context.Context, body any) (*T, error) {
	out := new(T)
	if _, err := c.client.Do(ctx, transport.Request{Method: http.MethodPost, Path: c.base + "/", Body: body}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c collection[T]) update(ctx context.Context, id string, body any) (*T, error) {
	p, err := c.item(id, "")
	if err != nil {
		return nil, err
	}
	out := new(T)
	if _, err := c.client.Do(ctx, transport.Request{Method: http.MethodPut, Path: p, Body: body}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	p, err := c.item(id, "")
	if err != nil {
		return err
	}
	_, err = c.client.Do(ctx, transport.Request{Method: http.MethodDelete, Path: p}, nil)
	return err
}

// item builds "/base/{id}" plus an optional action suffix ("/outline").
func (c collection[T]) item(id, suffix string) (string, error) {
	return transport.Path(c.base+"/{id}"+suffix, id)
}

// action POSTs body to an item action route and decodes the result into out.
func action(ctx context.Context, client *transport.Client, path string, body, out any) error {
	_, err := client.Do(ctx, transport.Request{Method: http.MethodPost, Path: path, Body: body}, out)
	return err
}
