// Package provider owns the in-memory entity collections and keeps them in step
// with the active storage backend.
package provider

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/fsm"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/localstore"
	"github.com/tair/fabstock/internal/remote"
	"github.com/tair/fabstock/pkg/logger"
)

// Options configures a Provider.
type Options struct {
	// Local holds local-mode collections and the settings blob.
	Local localstore.KV
	// Connect opens remote clients. Remote mode is unavailable when nil.
	Connect remote.Connector
	// Settings selects the initial backend.
	Settings domain.AppSettings
	// Seed replaces the built-in first-run dataset.
	Seed *domain.Snapshot
	// Metrics may be nil.
	Metrics *Metrics
	// OnStateChange is called after every lifecycle transition, outside of any lock.
	OnStateChange func(State)
}

// Status describes the provider for display.
type Status struct {
	State              State                      `json:"state"`
	Mode               domain.StorageMode         `json:"mode,omitempty"`
	Error              string                     `json:"error,omitempty"`
	PendingWriteFailed map[domain.Collection]bool `json:"pendingWriteFailed"`
}

// Provider is the synchronization orchestrator. All collection reads and writes go through it.
type Provider struct {
	local   localstore.KV
	connect remote.Connector
	seed    domain.Snapshot
	metrics *Metrics
	observe func(State)

	// initMu serializes (re)initialization.
	initMu sync.Mutex

	mu         sync.RWMutex
	settings   domain.AppSettings
	snap       domain.Snapshot
	backend    Backend
	mode       domain.StorageMode
	lifecycle  *fsm.FSM
	lastErr    string
	generation uint64
	pending    map[domain.Collection]bool
	tails      map[domain.Collection]chan struct{}
	unsubs     []func()

	writes *writeTracker
}

// New creates a Provider in the uninitialized state. Call Start to load data.
func New(opts Options) *Provider {
	seed := domain.SeedSnapshot()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	p := &Provider{
		local:    opts.Local,
		connect:  opts.Connect,
		seed:     seed,
		metrics:  opts.Metrics,
		observe:  opts.OnStateChange,
		settings: opts.Settings,
		pending:  make(map[domain.Collection]bool),
		tails:    make(map[domain.Collection]chan struct{}),
		writes:   newWriteTracker(),
	}
	p.lifecycle = newLifecycle(p.metrics.setState)
	p.metrics.setState(StateUninitialized)
	return p
}

// Start runs the initial load for the configured settings.
func (p *Provider) Start(ctx context.Context) error {
	return p.initialize(ctx)
}

// Reconfigure replaces the settings, persists them and reruns initialization.
func (p *Provider) Reconfigure(ctx context.Context, settings domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.settings = settings
	p.mu.Unlock()

	if err := saveSettings(ctx, p.local, settings); err != nil {
		return err
	}
	return p.initialize(ctx)
}

// initialize selects a backend from the current settings and loads every collection.
// On failure the previous in-memory collections are kept.
func (p *Provider) initialize(ctx context.Context) error {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	p.mu.Lock()
	settings := p.settings
	p.generation++
	gen := p.generation
	p.lastErr = ""
	p.fire(eventLoad)
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()

	p.notify(StateLoading)
	for _, unsubscribe := range unsubs {
		unsubscribe()
	}

	log := logger.WithContext(ctx)
	log.Info().Str("mode", string(settings.Mode)).Msg("Initializing storage backend")

	backend, err := p.open(ctx, settings)
	if err != nil {
		return p.fail(gen, nil, err)
	}

	snap, err := backend.LoadAll(ctx)
	if err != nil {
		return p.fail(gen, backend, err)
	}

	if !p.commit(gen, backend, snap) {
		return nil
	}
	if backend.Mode() == domain.ModeRemote {
		p.subscribe(gen, backend)
	}

	log.Info().
		Str("mode", string(backend.Mode())).
		Int("items", len(snap.Items)).
		Int("machines", len(snap.Machines)).
		Int("tickets", len(snap.Tickets)).
		Int("team", len(snap.Team)).
		Msg("Storage backend ready")
	return nil
}

func (p *Provider) open(ctx context.Context, settings domain.AppSettings) (Backend, error) {
	if settings.Mode != domain.ModeRemote {
		return NewLocalBackend(p.local, p.seed), nil
	}
	if !settings.RemoteConfigured() {
		logger.Warn(ctx).Msg("Remote mode selected without endpoint or key, using local storage")
		return NewLocalBackend(p.local, p.seed), nil
	}
	if p.connect == nil {
		return nil, &domain.ConfigurationError{Message: "remote backend is not available in this build"}
	}

	client, err := p.connect(ctx, settings.RemoteURL, settings.RemoteKey)
	if err != nil {
		return nil, err
	}
	return NewRemoteBackend(client), nil
}

// fail records err as the current error. A backend that was opened but could not
// load stays active so that writes keep reaching it.
func (p *Provider) fail(gen uint64, backend Backend, err error) error {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		closeBackend(backend)
		return err
	}
	p.lastErr = err.Error()
	p.fire(eventFail)
	var old Backend
	if backend != nil {
		old = p.backend
		p.backend = backend
		p.mode = backend.Mode()
	}
	p.mu.Unlock()

	logger.Logger.Error().Err(err).Msg("Storage backend initialization failed")
	p.notify(StateError)
	p.retire(old)
	return err
}

// commit swaps in the loaded collections in one step. It reports false when a newer
// initialization has started in the meantime.
func (p *Provider) commit(gen uint64, backend Backend, snap domain.Snapshot) bool {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		closeBackend(backend)
		return false
	}
	old := p.backend
	p.backend = backend
	p.mode = backend.Mode()
	p.snap = snap
	p.pending = make(map[domain.Collection]bool)
	p.fire(eventLoaded)
	p.mu.Unlock()

	p.metrics.setSizes(snap)
	p.notify(StateReady)
	p.retire(old)
	return true
}

func (p *Provider) subscribe(gen uint64, backend Backend) {
	unsubs := make([]func(), 0, len(domain.Collections))
	for _, c := range domain.Collections {
		unsubscribe, err := backend.Subscribe(c, func() { p.refresh(gen, backend, c) })
		if err != nil {
			logger.Logger.Warn().Err(err).Str("collection", string(c)).Msg("Failed to subscribe to remote changes")
			continue
		}
		unsubs = append(unsubs, unsubscribe)
	}

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}
		return
	}
	p.unsubs = unsubs
	p.mu.Unlock()
}

// refresh refetches one collection after a remote change notification and replaces
// the in-memory copy. The latest fetch wins over any optimistic local value.
func (p *Provider) refresh(gen uint64, backend Backend, c domain.Collection) {
	ctx := context.Background()
	var fresh domain.Snapshot
	if err := backend.LoadCollection(ctx, c, &fresh); err != nil {
		logger.Logger.Error().Err(err).Str("collection", string(c)).Msg("Failed to refetch collection after remote change")
		return
	}

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return
	}
	p.snap.CopyFrom(c, fresh)
	p.mu.Unlock()

	p.metrics.recordRemoteChange(c)
	p.metrics.setSize(c, fresh.Len(c))
	logger.Logger.Debug().Str("collection", string(c)).Int("records", fresh.Len(c)).Msg("Collection refreshed from remote")
}

// retire closes a replaced backend once the writes queued against it have finished.
func (p *Provider) retire(old Backend) {
	if old == nil {
		return
	}
	p.mu.RLock()
	current := p.backend
	p.mu.RUnlock()
	if old == current {
		return
	}
	p.writes.wait()
	closeBackend(old)
}

func closeBackend(b Backend) {
	if b == nil {
		return
	}
	if err := b.Close(); err != nil {
		logger.Logger.Warn().Err(err).Str("mode", string(b.Mode())).Msg("Failed to close storage backend")
	}
}

// fire triggers a lifecycle event. Callers hold p.mu.
func (p *Provider) fire(event string) {
	err := p.lifecycle.Event(context.Background(), event)
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		logger.Logger.Error().Err(err).Str("event", event).Msg("Unexpected lifecycle transition")
	}
}

func (p *Provider) notify(s State) {
	if p.observe != nil {
		p.observe(s)
	}
}

// Status returns the lifecycle state, active mode, last error and per-collection write failures.
func (p *Provider) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	pending := make(map[domain.Collection]bool, len(domain.Collections))
	for _, c := range domain.Collections {
		pending[c] = p.pending[c]
	}
	st := Status{
		State:              State(p.lifecycle.Current()),
		Error:              p.lastErr,
		PendingWriteFailed: pending,
	}
	if p.backend != nil {
		st.Mode = p.mode
	}
	return st
}

// State returns the lifecycle state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return State(p.lifecycle.Current())
}

// Mode returns the mode of the active backend, or the configured mode before the first load.
func (p *Provider) Mode() domain.StorageMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.backend == nil {
		return p.settings.Mode
	}
	return p.mode
}

// Flush blocks until every write-through dispatched so far has completed.
func (p *Provider) Flush() {
	p.writes.wait()
}

// Close stops notifications, waits for pending writes and closes the backend.
func (p *Provider) Close() error {
	p.mu.Lock()
	p.generation++
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	p.writes.wait()

	p.mu.Lock()
	backend := p.backend
	p.backend = nil
	p.mu.Unlock()

	if backend != nil {
		return backend.Close()
	}
	return nil
}
