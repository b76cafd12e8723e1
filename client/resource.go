package client

import (
	"context"
	"net/http"
	"net/url"
)

// ResourceClient gives CRUD access to one collection. R is the record returned
// by the server and B the payload sent on create and update.
type ResourceClient[R any, B any] struct {
	client *Client
	path   string
}

func newResourceClient[R any, B any](c *Client, path string) *ResourceClient[R, B] {
	return &ResourceClient[R, B]{client: c, path: path}
}

func (r *ResourceClient[R, B]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List returns the whole collection in server order.
func (r *ResourceClient[R, B]) List(ctx context.Context) ([]R, error) {
	var items []R
	if err := r.client.Do(ctx, r.path+"/", RequestOptions{Method: http.MethodGet}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []R{}
	}
	return items, nil
}

func (r *ResourceClient[R, B]) Get(ctx context.Context, id string) (*R, error) {
	item := new(R)
	if err := r.client.Do(ctx, r.itemPath(id), RequestOptions{Method: http.MethodGet}, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ResourceClient[R, B]) Create(ctx context.Context, payload B) (*R, error) {
	item := new(R)
	opts := RequestOptions{Method: http.MethodPost, Body: payload}
	if err := r.client.Do(ctx, r.path+"/", opts, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the record with payload; it is not a partial patch.
func (r *ResourceClient[R, B]) Update(ctx context.Context, id string, payload B) (*R, error) {
	item := new(R)
	opts := RequestOptions{Method: http.MethodPut, Body: payload}
	if err := r.client.Do(ctx, r.itemPath(id), opts, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete reports true for any successful response. The body is discarded.
func (r *ResourceClient[R, B]) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.client.Do(ctx, r.itemPath(id), RequestOptions{Method: http.MethodDelete}, nil); err != nil {
		return false, err
	}
	return true, nil
}
