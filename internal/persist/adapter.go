package persist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/store"
)

// DefaultNamespace prefixes every storage key.
const DefaultNamespace = "rocketmentor_"

// Slice names, appended to the namespace to form storage keys.
const (
	KeyUser          = "user"
	KeyOnboarding    = "onboarding"
	KeyManagerCanvas = "managerCanvas"
	KeyPromotionPath = "promotionPath"
	KeyWeekPlans     = "weekPlans"
	KeyWins          = "wins"
	KeyChatHistory   = "chatHistory"
)

// Keys lists every persisted slice in write order.
var Keys = []string{KeyUser, KeyOnboarding, KeyManagerCanvas, KeyPromotionPath, KeyWeekPlans, KeyWins, KeyChatHistory}

var persistWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rocketmentor_persist_writes_total",
		Help: "Total number of state slice writes to storage.",
	},
	[]string{"key", "result"},
)

func init() {
	prometheus.MustRegister(persistWrites)
}

// Adapter reads and writes state slices under namespaced keys.
type Adapter struct {
	storage   Storage
	namespace string
	timeout   time.Duration
	log       zerolog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(a *Adapter) { a.namespace = ns }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithTimeout bounds each write triggered by Attach.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func NewAdapter(s Storage, opts ...Option) *Adapter {
	a := &Adapter{
		storage:   s,
		namespace: DefaultNamespace,
		timeout:   5 * time.Second,
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Key returns the storage key of a slice name.
func (a *Adapter) Key(name string) string { return a.namespace + name }

// Save writes every non-null slice of s. Null user, canvas and path are
// skipped so a previously saved value is never overwritten with null.
func (a *Adapter) Save(ctx context.Context, s store.State) {
	if s.User != nil {
		a.write(ctx, KeyUser, s.User)
	}
	a.write(ctx, KeyOnboarding, s.Onboarding)
	if s.ManagerCanvas != nil {
		a.write(ctx, KeyManagerCanvas, s.ManagerCanvas)
	}
	if s.PromotionPath != nil {
		a.write(ctx, KeyPromotionPath, s.PromotionPath)
	}
	a.write(ctx, KeyWeekPlans, nonNil(s.WeekPlans))
	a.write(ctx, KeyWins, nonNil(s.Wins))
	a.write(ctx, KeyChatHistory, nonNil(s.ChatHistory))
}

func (a *Adapter) write(ctx context.Context, name string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		persistWrites.WithLabelValues(name, "encode_error").Inc()
		a.log.Error().Err(err).Str("key", a.Key(name)).Msg("persist: encode failed")
		return
	}
	if err := a.storage.Set(ctx, a.Key(name), b); err != nil {
		persistWrites.WithLabelValues(name, "error").Inc()
		a.log.Error().Err(err).Str("key", a.Key(name)).Msg("persist: write failed")
		return
	}
	persistWrites.WithLabelValues(name, "ok").Inc()
}

// Load reads every key. Missing or undecodable values fall back to the
// defaults of a fresh workspace, so the result always sets every field
// except User, ManagerCanvas and PromotionPath, which stay nil when absent.
func (a *Adapter) Load(ctx context.Context) store.LoadState {
	ls := store.LoadState{}

	var u domain.User
	if a.read(ctx, KeyUser, &u) {
		ls.User = &u
	}

	o := store.InitialOnboarding()
	var saved domain.OnboardingData
	if a.read(ctx, KeyOnboarding, &saved) {
		o = saved
	}
	ls.Onboarding = &o

	var c domain.ManagerCanvas
	if a.read(ctx, KeyManagerCanvas, &c) {
		ls.ManagerCanvas = &c
	}
	var p domain.PromotionPath
	if a.read(ctx, KeyPromotionPath, &p) {
		ls.PromotionPath = &p
	}

	ls.WeekPlans = readList[domain.WeekPlan](ctx, a, KeyWeekPlans)
	ls.Wins = readList[domain.Win](ctx, a, KeyWins)
	ls.ChatHistory = readList[domain.ChatMessage](ctx, a, KeyChatHistory)
	return ls
}

func readList[T any](ctx context.Context, a *Adapter, name string) []T {
	var xs []T
	if !a.read(ctx, name, &xs) {
		return []T{}
	}
	return nonNil(xs)
}

// read decodes the value under name into dst. It reports false, leaving dst
// untouched, when the key is missing, null or undecodable.
func (a *Adapter) read(ctx context.Context, name string, dst any) bool {
	b, ok, err := a.storage.Get(ctx, a.Key(name))
	if err != nil {
		a.log.Error().Err(err).Str("key", a.Key(name)).Msg("persist: read failed")
		return false
	}
	if !ok || len(b) == 0 || string(b) == "null" {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		a.log.Warn().Err(err).Str("key", a.Key(name)).Msg("persist: ignoring undecodable value")
		return false
	}
	return true
}

// Attach writes through every committed transition of st. A Logout also
// removes the saved user so the next startup is signed out.
func (a *Adapter) Attach(st *store.Store) (detach func()) {
	return st.Subscribe(func(_, next store.State, act store.Action) {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if _, ok := act.(store.Logout); ok {
			a.remove(ctx, KeyUser)
		}
		a.Save(ctx, next)
	})
}

// Clear removes every namespaced key.
func (a *Adapter) Clear(ctx context.Context) {
	for _, k := range Keys {
		a.remove(ctx, k)
	}
}

// RemoveKey deletes one slice from storage, leaving the rest in place.
func (a *Adapter) RemoveKey(ctx context.Context, name string) { a.remove(ctx, name) }

func (a *Adapter) remove(ctx context.Context, name string) {
	if err := a.storage.Remove(ctx, a.Key(name)); err != nil {
		a.log.Error().Err(err).Str("key", a.Key(name)).Msg("persist: remove failed")
	}
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
