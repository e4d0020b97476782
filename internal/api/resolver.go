package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"erp-sync/internal/core"

	"github.com/tidwall/gjson"
)

// ResolutionKind tags how a record was reached.
type ResolutionKind int

const (
	NotFound ResolutionKind = iota
	FoundByNumber
	FoundByQuery
	FoundByID
)

func (k ResolutionKind) String() string {
	switch k {
	case FoundByNumber:
		return "found-by-number"
	case FoundByQuery:
		return "found-by-query"
	case FoundByID:
		return "found-by-id"
	}
	return "not-found"
}

// Resolution is the outcome of addressing one record. Body is the backend
// response to the addressed request.
type Resolution struct {
	Kind ResolutionKind
	Path string
	ID   string
	Body gjson.Result
}

// Found reports whether the request reached a record.
func (r Resolution) Found() bool { return r.Kind != NotFound }

// Address sends method to the record with business key key, walking the
// endpoint's fallback chain. Only a 404 moves on to the next step; any
// other error is returned at once. Exhausting the chain is not an error:
// the resolution is NotFound.
func Address(ctx context.Context, b Backend, ep Endpoint, method, key string, body any) (Resolution, error) {
	if key == "" {
		return Resolution{}, core.ErrMissingIdentifier
	}
	if !ep.Addressable() {
		return Resolution{}, fmt.Errorf("%s %s: %w", method, ep.Name, ErrNotAddressable)
	}
	if !ep.ByNumber() {
		return AddressID(ctx, b, ep, method, key, body)
	}

	for _, route := range ep.NumberRoutes {
		path := fmt.Sprintf(route, url.PathEscape(key))
		res, err := b.Do(ctx, method, path, nil, body)
		if err == nil {
			return Resolution{Kind: FoundByNumber, Path: path, Body: res}, nil
		}
		if !IsNotFound(err) {
			return Resolution{}, err
		}
	}

	if ep.QueryParam != "" {
		q := url.Values{ep.QueryParam: {key}}
		res, err := b.Do(ctx, method, ep.Path, q, body)
		if err == nil {
			return Resolution{Kind: FoundByQuery, Path: ep.Path + "?" + q.Encode(), Body: res}, nil
		}
		if !IsNotFound(err) {
			return Resolution{}, err
		}
	}

	if ep.IDRoute == "" {
		return Resolution{}, nil
	}

	id, err := LookupID(ctx, b, ep, key)
	if err != nil || id == "" {
		return Resolution{}, err
	}
	return AddressID(ctx, b, ep, method, id, body)
}

// AddressID sends method to the record with backend id id.
func AddressID(ctx context.Context, b Backend, ep Endpoint, method, id string, body any) (Resolution, error) {
	if id == "" {
		return Resolution{}, core.ErrMissingIdentifier
	}
	if ep.IDRoute == "" {
		return Resolution{}, fmt.Errorf("%s %s by id: %w", method, ep.Name, ErrNotAddressable)
	}
	path := fmt.Sprintf(ep.IDRoute, url.PathEscape(id))
	res, err := b.Do(ctx, method, path, nil, body)
	if err != nil {
		if IsNotFound(err) {
			return Resolution{}, nil
		}
		return Resolution{}, err
	}
	return Resolution{Kind: FoundByID, Path: path, ID: id, Body: res}, nil
}

// LookupID fetches the whole collection and returns the backend id of the
// record whose business key is key, or "" when there is none.
func LookupID(ctx context.Context, b Backend, ep Endpoint, key string) (string, error) {
	res, err := b.Do(ctx, http.MethodGet, ep.Path, nil, nil)
	if err != nil {
		return "", err
	}
	keys := core.FieldTable{"key": {ep.KeyField, "number"}}
	for _, rec := range NormalizeResponse(res) {
		if keys.String(rec, "key") == key {
			return core.IDFields.String(rec, "id"), nil
		}
	}
	return "", nil
}

// List fetches and normalizes the endpoint's collection.
func List(ctx context.Context, b Backend, ep Endpoint) ([]gjson.Result, error) {
	res, err := b.Do(ctx, http.MethodGet, ep.Path, nil, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeResponse(res), nil
}

// Create posts body to the endpoint and returns the created record.
func Create(ctx context.Context, b Backend, ep Endpoint, body any) (gjson.Result, error) {
	res, err := b.Do(ctx, http.MethodPost, ep.Path, nil, body)
	if err != nil {
		return gjson.Result{}, err
	}
	return NormalizeRecord(res), nil
}
