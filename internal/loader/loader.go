// Package loader fetches resources into the store, with at most one fetch
// in flight per resource key.
package loader

import (
	"context"
	"fmt"

	"erp-sync/internal/api"
	"erp-sync/internal/notify"
	"erp-sync/internal/store"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

// Coordinator de-duplicates concurrent fetches per key. Callers that arrive
// while a fetch is in flight share its result. The first caller's context
// drives the shared fetch; later callers do not cancel it.
type Coordinator struct {
	group    singleflight.Group
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewCoordinator(notifier notify.Notifier, log zerolog.Logger) *Coordinator {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Coordinator{notifier: notifier, log: log}
}

// Run calls fn unless a call for key is already in flight, in which case it
// waits for that call and returns its result. The slot is cleared when fn
// returns, whether it succeeded or not.
func (c *Coordinator) Run(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	v, err, shared := c.group.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if shared {
		c.log.Debug().Str("resource", key).Msg("joined in-flight load")
	}
	return v, err
}

// Forget drops the in-flight slot for key so the next Run starts a new
// fetch.
func (c *Coordinator) Forget(key string) {
	c.group.Forget(key)
}

type options struct {
	refresh bool
}

// Option tunes a Load call.
type Option func(*options)

// Refresh fetches even when the resource is already loaded.
func Refresh() Option {
	return func(o *options) { o.refresh = true }
}

// Fetch retrieves and decodes a whole resource.
type Fetch[T any] func(ctx context.Context) ([]T, error)

// Load returns the cached records of col when it is already loaded;
// otherwise it fetches them once, however many callers ask concurrently.
// A failed fetch is never returned as an error: the collection error is
// set, a notification is sent and the previous records are returned.
func Load[T any](ctx context.Context, c *Coordinator, col *store.Collection[T], fetch Fetch[T], opts ...Option) []T {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if col.Loaded() && !o.refresh {
		return col.Items()
	}

	v, err := c.Run(ctx, col.Name(), func(ctx context.Context) (any, error) {
		col.BeginLoad()
		items, err := fetch(ctx)
		if err != nil {
			col.FailLoad(api.ErrorMessage(err))
			c.log.Error().Err(err).Str("resource", col.Name()).Msg("load failed")
			c.notifier.Notify(notify.Notification{
				Level:   notify.Error,
				Title:   fmt.Sprintf("Could not load %s", col.Name()),
				Message: api.ErrorMessage(err),
			})
			return nil, err
		}
		col.FinishLoad(items)
		c.log.Debug().Str("resource", col.Name()).Int("count", len(items)).Msg("loaded")
		return col.Items(), nil
	})
	if err != nil {
		return col.Items()
	}
	items, _ := v.([]T)
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// FetchList builds a Fetch that lists ep and decodes each record.
func FetchList[T any](b api.Backend, ep api.Endpoint, decode func(gjson.Result) T) Fetch[T] {
	return func(ctx context.Context) ([]T, error) {
		recs, err := api.List(ctx, b, ep)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", ep.Name, err)
		}
		out := make([]T, 0, len(recs))
		for _, r := range recs {
			out = append(out, decode(r))
		}
		return out, nil
	}
}
