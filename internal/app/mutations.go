package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"erp-sync/internal/api"
	"erp-sync/internal/core"
	"erp-sync/internal/notify"
	"erp-sync/internal/store"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// TempKeyPrefix marks business keys and ids synthesized locally for
// records the backend returned without one.
const TempKeyPrefix = "TMP-"

// IsTemporary reports whether key was synthesized locally.
func IsTemporary(key string) bool { return strings.HasPrefix(key, TempKeyPrefix) }

func newTempKey() string { return TempKeyPrefix + uuid.NewString() }

// resource binds a store collection to its endpoint and canonical type.
type resource[T any] struct {
	label   string // singular, for notifications
	col     *store.Collection[T]
	ep      api.Endpoint
	decode  func(gjson.Result) T
	withKey func(T, store.Key) T
	payload func(T) any
}

// create inserts item optimistically, posts it and reconciles the keys from
// the response. A key already present in the collection is rejected before
// the network call. Records the backend returns without a key keep a TMP-
// key. On failure the collection is restored.
func create[T any](ctx context.Context, s *appService, r resource[T], item T) (T, error) {
	var zero T
	key := r.col.KeyOf(item)
	for _, k := range []string{key.Number, key.ID} {
		if _, taken := r.col.Find(k); taken {
			err := &core.ValidationError{Err: core.ErrDuplicateKey, Field: k}
			s.fail("Could not create "+r.label, err)
			return zero, err
		}
	}

	// The provisional row always carries a fresh temporary id so that
	// reconciliation touches that row only.
	provisional := key
	if r.ep.ByNumber() && provisional.Number == "" {
		provisional.Number = newTempKey()
	}
	if provisional.ID == "" {
		provisional.ID = newTempKey()
	}
	item = r.withKey(item, provisional)

	snap := r.col.Snapshot()
	r.col.Insert(item)

	rec, err := api.Create(ctx, s.backend, r.ep, r.payload(item))
	if err != nil {
		r.col.Restore(snap, "create "+r.label+" failed")
		s.fail("Could not create "+r.label, err)
		return zero, fmt.Errorf("create %s: %w", r.label, err)
	}

	final := reconcileKey(provisional, key, r.col.KeyOf(r.decode(rec)))
	if final.ID == provisional.ID && key.ID == "" && r.ep.ByNumber() {
		// Documents are addressed by business key; a synthesized id
		// is not kept.
		final.ID = ""
	}
	saved := r.withKey(item, final)
	r.col.Update(provisional.ID, func(T) T { return saved })

	s.succeed(capitalize(r.label)+" created", final.String())
	return saved, nil
}

// reconcileKey merges the key the caller sent with the key the backend
// returned. The backend id always wins; a business key the caller did not
// supply is taken from the response, else the provisional one is kept.
func reconcileKey(provisional, sent, returned store.Key) store.Key {
	k := provisional
	if returned.ID != "" {
		k.ID = returned.ID
	}
	if sent.Number == "" && returned.Number != "" {
		k.Number = returned.Number
	}
	return k
}

// update replaces the record key names. The store is updated first and
// restored if the backend rejects the change or no longer has the record.
func update[T any](ctx context.Context, s *appService, r resource[T], key string, item T) (T, error) {
	var zero T
	if strings.TrimSpace(key) == "" {
		err := &core.ValidationError{Err: core.ErrMissingIdentifier, Field: r.label}
		s.fail("Could not update "+r.label, err)
		return zero, err
	}

	existing, ok := r.col.Find(key)
	addr := store.Key{Number: key}
	if ok {
		addr = r.col.KeyOf(existing)
	} else if !r.ep.ByNumber() {
		addr = store.Key{ID: key}
	}
	next := mergeKey(addr, r.col.KeyOf(item))
	item = r.withKey(item, next)

	snap := r.col.Snapshot()
	r.col.Update(key, func(T) T { return item })

	res, err := s.address(ctx, r.ep, http.MethodPut, addr, r.payload(item))
	if err == nil && !res.Found() {
		err = fmt.Errorf("%s %s: %w", r.label, key, core.ErrRecordNotFound)
	}
	if err != nil {
		r.col.Restore(snap, "update "+r.label+" failed")
		s.fail("Could not update "+r.label, err)
		return zero, fmt.Errorf("update %s %s: %w", r.label, key, err)
	}
	if res.ID != "" && next.ID == "" {
		next.ID = res.ID
		item = r.withKey(item, next)
		r.col.Update(key, func(T) T { return item })
	}

	s.succeed(capitalize(r.label)+" updated", next.String())
	return item, nil
}

// remove deletes the record key names, optimistically.
func remove[T any](ctx context.Context, s *appService, r resource[T], key string) error {
	if strings.TrimSpace(key) == "" {
		err := &core.ValidationError{Err: core.ErrMissingIdentifier, Field: r.label}
		s.fail("Could not delete "+r.label, err)
		return err
	}

	existing, ok := r.col.Find(key)
	addr := store.Key{Number: key}
	if ok {
		addr = r.col.KeyOf(existing)
	} else if !r.ep.ByNumber() {
		addr = store.Key{ID: key}
	}

	snap := r.col.Snapshot()
	r.col.Remove(key)

	// A record that only exists locally has nothing to delete remotely.
	if ok && isLocalOnly(addr) {
		s.succeed(capitalize(r.label)+" deleted", key)
		return nil
	}

	res, err := s.address(ctx, r.ep, http.MethodDelete, addr, nil)
	if err == nil && !res.Found() {
		err = fmt.Errorf("%s %s: %w", r.label, key, core.ErrRecordNotFound)
	}
	if err != nil {
		r.col.Restore(snap, "delete "+r.label+" failed")
		s.fail("Could not delete "+r.label, err)
		return fmt.Errorf("delete %s %s: %w", r.label, key, err)
	}
	s.succeed(capitalize(r.label)+" deleted", key)
	return nil
}

func mergeKey(current, given store.Key) store.Key {
	k := current
	if k.ID == "" {
		k.ID = given.ID
	}
	if k.Number == "" {
		k.Number = given.Number
	}
	return k
}

func isLocalOnly(k store.Key) bool {
	return (k.ID == "" || IsTemporary(k.ID)) && (k.Number == "" || IsTemporary(k.Number))
}

// address picks the addressing strategy for k: business key first, backend
// id as the fallback. Temporary keys are never sent to the backend.
func (s *appService) address(ctx context.Context, ep api.Endpoint, method string, k store.Key, body any) (api.Resolution, error) {
	if ep.ByNumber() && k.Number != "" && !IsTemporary(k.Number) {
		return api.Address(ctx, s.backend, ep, method, k.Number, body)
	}
	if k.ID != "" && !IsTemporary(k.ID) {
		if ep.IDRoute == "" {
			return api.Address(ctx, s.backend, ep, method, k.ID, body)
		}
		return api.AddressID(ctx, s.backend, ep, method, k.ID, body)
	}
	return api.Resolution{}, core.ErrMissingIdentifier
}

func (s *appService) fail(title string, err error) {
	msg := api.ErrorMessage(err)
	if errors.Is(err, core.ErrMissingIdentifier) {
		msg = "This record has no identifier yet; reload and try again."
	}
	s.log.Warn().Err(err).Str("title", title).Msg("mutation failed")
	s.notifier.Notify(notify.Notification{Level: notify.Error, Title: title, Message: msg})
}

func (s *appService) succeed(title, key string) {
	s.notifier.Notify(notify.Notification{Level: notify.Success, Title: title, Message: key})
}

// sideEffect runs fn, a local consistency rule applied after the backend
// accepted the primary change. A panic is logged and reported as false; it
// never fails the primary operation.
func (s *appService) sideEffect(name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("effect", name).Msg("side effect failed")
			ok = false
		}
	}()
	fn()
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
