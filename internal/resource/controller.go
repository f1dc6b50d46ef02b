package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"floradmin/internal/apiclient"
	"floradmin/internal/cache"
	"floradmin/internal/metrics"
	"floradmin/internal/model"
)

var (
	// ErrConfirmationRequired is returned by deletes that were not confirmed.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	// ErrNotFound is returned when the backend has no such entity.
	ErrNotFound = errors.New("not found")
)

const (
	bulkConcurrency  = 4
	reconcileTimeout = 10 * time.Second
)

// Entity is a record with a backend id.
type Entity interface {
	EntityID() string
}

// Payload is a typed create/update input.
type Payload interface {
	FormFields() url.Values
	Attachment() (field string, upload *model.Upload)
}

// Requester sends requests to the backend on behalf of one scope.
// *apiclient.Client implements it.
type Requester interface {
	Do(ctx context.Context, method, path string, body apiclient.Body, out any) error
	// Scope identifies what the caller is allowed to see. Lists fetched
	// under one scope are never served to another.
	Scope() string
}

// Spec describes one backend resource.
type Spec struct {
	// Name identifies the resource in cache keys, logs and metrics.
	Name string
	// Path is the collection path, e.g. "/floristerias".
	Path string
	// ListPath builds the list path for a non-empty filter. When nil the
	// filter is ignored.
	ListPath func(filter string) string
}

func (s Spec) listPath(filter string) string {
	if filter == "" || s.ListPath == nil {
		return s.Path
	}
	return s.ListPath(filter)
}

// Deps is the infrastructure shared by every controller.
type Deps struct {
	Cache          *cache.Client
	Validator      *Validator
	Log            *zap.SugaredLogger
	Metrics        *metrics.Collector
	CacheTTL       time.Duration
	ReconcileDelay time.Duration
}

// Controller performs CRUD for one resource type.
type Controller[T Entity, P Payload] struct {
	spec    Spec
	deps    Deps
	tracker *Tracker

	mu    sync.Mutex
	lists map[listKey][]T
}

// listKey identifies a remembered list.
type listKey struct {
	scope  string
	filter string
}

// New creates a controller for spec.
func New[T Entity, P Payload](spec Spec, deps Deps) *Controller[T, P] {
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	return &Controller[T, P]{
		spec:    spec,
		deps:    deps,
		tracker: NewTracker(),
		lists:   make(map[listKey][]T),
	}
}

// Name returns the resource name.
func (c *Controller[T, P]) Name() string { return c.spec.Name }

// Tracker exposes the per-operation state.
func (c *Controller[T, P]) Tracker() *Tracker { return c.tracker }

func (c *Controller[T, P]) cachePrefix() string { return "list:" + c.spec.Name + ":" }

func (c *Controller[T, P]) cacheKey(k listKey) string {
	return c.cachePrefix() + k.scope + ":" + k.filter
}

func (c *Controller[T, P]) itemPath(id string) string {
	return c.spec.Path + "/" + url.PathEscape(id)
}

// List returns the entities matching filter as seen by the caller's scope.
// On failure it returns the last successful list for the same scope and
// filter, if any, together with the error.
func (c *Controller[T, P]) List(ctx context.Context, api Requester, filter string) ([]T, error) {
	key := c.tracker.Key(ListKey)
	c.tracker.Start(key)
	k := listKey{scope: api.Scope(), filter: filter}

	if items, ok := c.cached(ctx, k); ok {
		c.remember(k, items)
		c.tracker.Finish(key, nil)
		return items, nil
	}

	items, err := c.fetch(ctx, api, filter)
	c.tracker.Finish(key, err)
	if err != nil {
		c.deps.Log.Warnw("list failed", "resource", c.spec.Name, "scope", k.scope, "filter", filter, "error", err)
		return c.previous(k), err
	}
	return items, nil
}

func (c *Controller[T, P]) cached(ctx context.Context, k listKey) ([]T, bool) {
	raw, _ := c.deps.Cache.Get(ctx, c.cacheKey(k))
	if raw == nil {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// fetch always goes to the backend and refreshes the cache and the
// remembered list.
func (c *Controller[T, P]) fetch(ctx context.Context, api Requester, filter string) ([]T, error) {
	var items []T
	if err := api.Do(ctx, http.MethodGet, c.spec.listPath(filter), nil, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.spec.Name, err)
	}
	if items == nil {
		items = []T{}
	}
	k := listKey{scope: api.Scope(), filter: filter}
	c.remember(k, items)
	if c.deps.CacheTTL > 0 {
		if raw, err := json.Marshal(items); err == nil {
			_ = c.deps.Cache.Set(ctx, c.cacheKey(k), raw, c.deps.CacheTTL)
		}
	}
	return items, nil
}

func (c *Controller[T, P]) remember(k listKey, items []T) {
	c.mu.Lock()
	c.lists[k] = items
	c.mu.Unlock()
}

func (c *Controller[T, P]) previous(k listKey) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists[k]
}

// Remembered returns the last known list for filter under scope.
func (c *Controller[T, P]) Remembered(scope, filter string) []T {
	return c.previous(listKey{scope: scope, filter: filter})
}

// GetOne fetches a single entity. A missing entity yields ErrNotFound.
func (c *Controller[T, P]) GetOne(ctx context.Context, api Requester, id string) (T, error) {
	var item T
	c.tracker.Start(id)
	err := api.Do(ctx, http.MethodGet, c.itemPath(id), nil, &item)
	if errors.Is(err, apiclient.ErrNotFound) {
		err = fmt.Errorf("%s %s: %w", c.spec.Name, id, ErrNotFound)
	} else if err != nil {
		err = fmt.Errorf("get %s %s: %w", c.spec.Name, id, err)
	}
	c.tracker.Finish(id, err)
	return item, err
}

// Create validates p and posts it.
func (c *Controller[T, P]) Create(ctx context.Context, api Requester, p P) (T, error) {
	return c.submit(ctx, api, c.tracker.Key(CreateKey), http.MethodPost, c.spec.Path, p)
}

// Update validates p and puts it over the entity id.
func (c *Controller[T, P]) Update(ctx context.Context, api Requester, id string, p P) (T, error) {
	return c.submit(ctx, api, id, http.MethodPut, c.itemPath(id), p)
}

func (c *Controller[T, P]) submit(ctx context.Context, api Requester, key, method, path string, p P) (T, error) {
	var item T
	if verr := c.deps.Validator.Check(p); verr != nil {
		c.tracker.Finish(key, verr)
		return item, verr
	}

	c.tracker.Start(key)
	err := api.Do(ctx, method, path, encode(p), &item)
	if err != nil {
		err = fmt.Errorf("%s %s: %w", method, c.spec.Name, err)
	} else {
		c.invalidate(ctx)
	}
	c.tracker.Finish(key, err)
	return item, err
}

// encode sends a multipart body when a file is attached, JSON otherwise.
func encode(p Payload) apiclient.Body {
	field, up := p.Attachment()
	if up == nil {
		return apiclient.JSON(p)
	}
	return apiclient.Multipart(p.FormFields(), &apiclient.File{
		Field:       field,
		Filename:    up.Filename,
		ContentType: up.DetectedType(),
		Data:        up.Data,
	})
}

// Remove deletes id after confirmation. The entity is dropped from the
// remembered lists at once and a full refresh follows after the
// reconcile delay.
func (c *Controller[T, P]) Remove(ctx context.Context, api Requester, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	c.tracker.Start(id)
	err := c.deleteOne(ctx, api, id)
	c.tracker.Finish(id, err)
	if err != nil {
		return err
	}

	c.forget(map[string]bool{id: true})
	c.invalidate(ctx)
	c.scheduleReconcile(api)
	return nil
}

func (c *Controller[T, P]) deleteOne(ctx context.Context, api Requester, id string) error {
	if err := api.Do(ctx, http.MethodDelete, c.itemPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.spec.Name, id, err)
	}
	return nil
}

// BulkResult partitions the ids of a bulk delete.
type BulkResult struct {
	Deleted []string
	Failed  map[string]error
}

// Total is the number of ids attempted.
func (r BulkResult) Total() int { return len(r.Deleted) + len(r.Failed) }

func (r BulkResult) String() string {
	return fmt.Sprintf("%d of %d deleted", len(r.Deleted), r.Total())
}

// BulkRemove deletes ids concurrently. Individual failures are reported in
// the result, not as an error.
func (c *Controller[T, P]) BulkRemove(ctx context.Context, api Requester, ids []string, confirmed bool) (BulkResult, error) {
	if !confirmed {
		return BulkResult{}, ErrConfirmationRequired
	}

	var (
		mu  sync.Mutex
		res = BulkResult{Failed: make(map[string]error)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		id := id
		g.Go(func() error {
			c.tracker.Start(id)
			err := c.deleteOne(gctx, api, id)
			c.tracker.Finish(id, err)
			mu.Lock()
			if err != nil {
				res.Failed[id] = err
			} else {
				res.Deleted = append(res.Deleted, id)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	c.deps.Metrics.ObserveBulkDelete(c.spec.Name, len(res.Deleted), len(res.Failed))
	if len(res.Failed) > 0 {
		c.deps.Log.Warnw("bulk delete partially failed", "resource", c.spec.Name, "result", res.String())
	}

	if len(res.Deleted) > 0 {
		gone := make(map[string]bool, len(res.Deleted))
		for _, id := range res.Deleted {
			gone[id] = true
		}
		c.forget(gone)
		c.invalidate(ctx)
		c.scheduleReconcile(api)
	}
	return res, nil
}

func (c *Controller[T, P]) forget(ids map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, items := range c.lists {
		kept := make([]T, 0, len(items))
		for _, it := range items {
			if !ids[it.EntityID()] {
				kept = append(kept, it)
			}
		}
		c.lists[k] = kept
	}
}

// Invalidate drops every cached list of the resource.
func (c *Controller[T, P]) Invalidate(ctx context.Context) { c.invalidate(ctx) }

func (c *Controller[T, P]) invalidate(ctx context.Context) {
	_ = c.deps.Cache.DeletePrefix(context.WithoutCancel(ctx), c.cachePrefix())
}

func (c *Controller[T, P]) scheduleReconcile(api Requester) {
	if c.deps.ReconcileDelay <= 0 {
		return
	}
	time.AfterFunc(c.deps.ReconcileDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()
		c.Reconcile(ctx, api)
	})
}

// Reconcile refreshes the remembered lists of the caller's scope. Lists of
// other scopes keep the local removal and are fetched again on their next
// List, since the cache was invalidated.
func (c *Controller[T, P]) Reconcile(ctx context.Context, api Requester) {
	scope := api.Scope()
	c.mu.Lock()
	filters := make([]string, 0, len(c.lists))
	for k := range c.lists {
		if k.scope == scope {
			filters = append(filters, k.filter)
		}
	}
	c.mu.Unlock()

	for _, f := range filters {
		if _, err := c.fetch(ctx, api, f); err != nil {
			c.deps.Log.Warnw("reconcile failed", "resource", c.spec.Name, "filter", f, "error", err)
		}
	}
}
