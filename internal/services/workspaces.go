// Package services – Workspaces
//
// A workspace is the live state store of one user. Workspaces keeps the most
// recently used ones in an LRU cache; each is loaded from the user's storage
// scope on first use and written back on every committed transition.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/rocketmentor/internal/generator"
	"github.com/tbourn/rocketmentor/internal/persist"
	"github.com/tbourn/rocketmentor/internal/repo"
	"github.com/tbourn/rocketmentor/internal/store"
)

// DefaultWorkspaceCacheSize bounds the number of live stores.
const DefaultWorkspaceCacheSize = 256

type workspace struct {
	store   *store.Store
	adapter *persist.Adapter
	detach  func()
}

// Workspaces opens and caches per-user stores.
type Workspaces struct {
	db        *gorm.DB
	gen       *generator.Generator
	namespace string
	log       zerolog.Logger

	mu    sync.Mutex
	cache *lru.Cache[string, *workspace]
}

// WorkspaceOption configures Workspaces.
type WorkspaceOption func(*Workspaces)

// WithStorageNamespace overrides persist.DefaultNamespace.
func WithStorageNamespace(ns string) WorkspaceOption {
	return func(w *Workspaces) { w.namespace = ns }
}

// WithWorkspaceLogger sets the logger handed to every persistence adapter.
func WithWorkspaceLogger(l zerolog.Logger) WorkspaceOption {
	return func(w *Workspaces) { w.log = l }
}

// NewWorkspaces returns an empty cache holding at most size stores. Evicted
// stores stop writing through; their data stays in storage.
func NewWorkspaces(db *gorm.DB, gen *generator.Generator, size int, opts ...WorkspaceOption) (*Workspaces, error) {
	if size <= 0 {
		size = DefaultWorkspaceCacheSize
	}
	w := &Workspaces{
		db:        db,
		gen:       gen,
		namespace: persist.DefaultNamespace,
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(w)
	}
	cache, err := lru.NewWithEvict[string, *workspace](size, func(_ string, ws *workspace) {
		ws.detach()
	})
	if err != nil {
		return nil, fmt.Errorf("workspaces: %w", err)
	}
	w.cache = cache
	return w, nil
}

// Generator returns the content generator shared by every workspace.
func (w *Workspaces) Generator() *generator.Generator { return w.gen }

// Len reports the number of live stores.
func (w *Workspaces) Len() int { return w.cache.Len() }

// Open returns the store of userID, loading it from storage when it is not
// cached. The store's user is refreshed from the account record on load.
func (w *Workspaces) Open(ctx context.Context, userID string) (*store.Store, error) {
	tr := otel.Tracer("services/Workspaces")
	ctx, span := tr.Start(ctx, "Open", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	if ws, ok := w.cache.Get(userID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return ws.store, nil
	}

	acc, err := repo.GetAccount(ctx, w.db, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workspaces.Open: %w", err)
	}

	ad := persist.NewAdapter(
		repo.NewScopedStorage(w.db, userID),
		persist.WithNamespace(w.namespace),
		persist.WithLogger(w.log.With().Str("user_id", userID).Logger()),
	)
	st := store.New(w.gen, store.Initial())
	st.Dispatch(ad.Load(ctx))

	ws := &workspace{store: st, adapter: ad, detach: ad.Attach(st)}
	u := repo.AccountUser(acc)
	st.Dispatch(store.SetUser{User: &u})

	w.cache.Add(userID, ws)
	return st, nil
}

// Close signs userID out of its cached store. The saved user key is removed
// but the rest of the user's data stays in storage; delayed work still
// holding the old store is dropped by the epoch guard.
func (w *Workspaces) Close(ctx context.Context, userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ws, ok := w.cache.Peek(userID)
	if !ok {
		return
	}
	ws.detach()
	ws.adapter.RemoveKey(ctx, persist.KeyUser)
	ws.store.Dispatch(store.Logout{})
	w.cache.Remove(userID)
}

// HandleSessionEvent keeps cached stores in step with the auth service.
func (w *Workspaces) HandleSessionEvent(ctx context.Context, ev SessionEvent) {
	switch ev.Kind {
	case SessionSignedOut:
		w.Close(ctx, ev.UserID)
	case SessionSignedIn, SessionUpdated:
		w.mu.Lock()
		ws, ok := w.cache.Peek(ev.UserID)
		w.mu.Unlock()
		if !ok || ev.User == nil {
			return
		}
		epoch := ws.store.Epoch()
		if _, ok := ws.store.DispatchAt(epoch, store.SetUser{User: ev.User}); !ok {
			zerolog.Ctx(ctx).Debug().Str("user_id", ev.UserID).Msg("workspaces: dropped stale session update")
		}
	}
}

// Purge drops every cached store. Their data stays in storage.
func (w *Workspaces) Purge() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cache.Purge()
}
