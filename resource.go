package billomat

import (
	"context"
	"strconv"
)

// resource is the CRUD plumbing shared by every Billomat entity. The service
// types only supply paths, wrapper keys and the hydrate function.
type resource[T any] struct {
	client   *Client
	path     string
	plural   string
	singular string
	hydrate  func(record) T
}

func (r resource[T]) itemPath(id int) string {
	return r.path + "/" + strconv.Itoa(id)
}

func (r resource[T]) list(ctx context.Context, query Query) ([]T, error) {
	body, err := r.client.getJSON(ctx, "list "+r.path, r.path, query)
	if err != nil {
		return nil, err
	}
	return hydrateAll(collection(body, r.plural, r.singular), r.hydrate), nil
}

func (r resource[T]) get(ctx context.Context, id int) (*T, error) {
	return r.getAt(ctx, r.itemPath(id), nil)
}

// getAt fetches a single record from path. A 404 yields (nil, nil).
func (r resource[T]) getAt(ctx context.Context, path string, query Query) (*T, error) {
	op := "get " + path
	body, err := r.client.getJSONOrNil(ctx, op, path, query)
	if err != nil || body == nil {
		return nil, err
	}
	return r.one(op, body)
}

func (r resource[T]) create(ctx context.Context, p payload) (*T, error) {
	op := "create " + r.singular
	body, err := r.client.postJSON(ctx, op, r.path, wrap(r.singular, p))
	if err != nil {
		return nil, err
	}
	return r.one(op, body)
}

func (r resource[T]) update(ctx context.Context, id int, p payload) (*T, error) {
	op := "update " + r.itemPath(id)
	body, err := r.client.putJSON(ctx, op, r.itemPath(id), wrap(r.singular, p))
	if err != nil {
		return nil, err
	}
	return r.one(op, body)
}

func (r resource[T]) remove(ctx context.Context, id int) error {
	return r.client.deleteVoid(ctx, r.itemPath(id))
}

// one hydrates body[singular], failing when the wrapper is missing.
func (r resource[T]) one(op string, body map[string]any) (*T, error) {
	rec, ok := single(body, r.singular)
	if !ok {
		return nil, &UnexpectedResponseError{Op: op, Key: r.singular}
	}
	v := r.hydrate(rec)
	return &v, nil
}

// Paging selects one page of a list. Zero values leave Billomat's defaults in
// place; the client never walks pages on its own.
type Paging struct {
	PerPage int
	Page    int
}

func (p Paging) apply(q Query) {
	if p.PerPage > 0 {
		q["per_page"] = p.PerPage
	}
	if p.Page > 0 {
		q["page"] = p.Page
	}
}

func queryEnum[E ~string](q Query, key string, v E) {
	if v != "" {
		q[key] = string(v)
	}
}
