package compliance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/compliance-view/internal/application"
	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
)

// Session outcomes reported to an Observer.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeDiscarded = "discarded"
)

// fetchDrainTimeout bounds how long Close waits for a cancelled fetch.
const fetchDrainTimeout = 5 * time.Second

// Observer receives session lifecycle events (metrics).
type Observer interface {
	ObserveSession(outcome string)
	ObserveStoreClear()
}

// View runs the system query for whoever mounts it.
// View is safe for concurrent use; each Mount gets its own Session.
type View struct {
	Client   domain.QueryClient
	Clock    application.Clock
	Log      zerolog.Logger
	Observer Observer
}

// Session is one mount of the view: one fetch per identifier, released by Close.
type Session struct {
	id        string
	view      *View
	ctx       context.Context
	cancel    context.CancelFunc
	mountedAt time.Time
	log       zerolog.Logger

	mu          sync.Mutex
	systemID    string
	state       domain.State
	gen         uint64
	done        chan struct{}
	fetchCancel context.CancelFunc
	closed      bool

	closeOnce sync.Once
	closeErr  error
}

// Mount starts the query for systemID and returns immediately in Loading.
// The caller owns the Session and must Close it.
func (v *View) Mount(ctx context.Context, systemID string) *Session {
	mctx, cancel := context.WithCancel(ctx)
	id := uuid.New().String()
	s := &Session{
		id:        id,
		view:      v,
		ctx:       mctx,
		cancel:    cancel,
		mountedAt: v.now(),
		log:       v.Log.With().Str("session", id).Logger(),
	}

	s.mu.Lock()
	s.start(systemID)
	s.mu.Unlock()

	s.log.Debug().Str("system_id", systemID).Msg("view mounted")
	return s
}

// Render mounts, waits for the outcome (or ctx), hands the state to fn and
// unmounts on every path.
func (v *View) Render(ctx context.Context, systemID string, fn func(domain.State) error) error {
	s := v.Mount(ctx, systemID)
	defer func() {
		if err := s.Close(ctx); err != nil {
			s.log.Warn().Err(err).Msg("store clear on unmount failed")
		}
	}()
	return fn(s.Wait(ctx))
}

func (s *Session) ID() string { return s.id }

// SystemID is the identifier of the current cycle.
func (s *Session) SystemID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemID
}

// State returns the current state without blocking.
func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wait blocks until the current fetch resolves or ctx ends and returns the
// state at that point. A cycle restarted by Update is followed.
func (s *Session) Wait(ctx context.Context) domain.State {
	for {
		s.mu.Lock()
		done, gen := s.done, s.gen
		s.mu.Unlock()

		select {
		case <-done:
			s.mu.Lock()
			if gen == s.gen || s.closed {
				st := s.state
				s.mu.Unlock()
				return st
			}
			s.mu.Unlock()
		case <-ctx.Done():
			return s.State()
		}
	}
}

// Update restarts the cycle at Loading when the identifier changed. The
// superseded fetch is cancelled and its result dropped. Cached responses are
// left alone.
func (s *Session) Update(systemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || systemID == s.systemID {
		return
	}
	s.log.Debug().Str("from", s.systemID).Str("to", systemID).Msg("system id changed")
	s.start(systemID)
}

// Close unmounts: it cancels any in-flight fetch, drops its result and clears
// the client's store. The clear happens once per Session whatever the state;
// later calls return the first call's error.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		done := s.done
		s.mu.Unlock()

		// The fetch is cancelled, so it returns promptly. Waiting for it even
		// when ctx is done keeps a late store write from landing after the clear.
		s.cancel()
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchDrainTimeout)
		defer cancel()
		select {
		case <-done:
		case <-wctx.Done():
			s.log.Warn().Msg("fetch still running at unmount")
		}

		if c, ok := s.view.Client.(domain.StoreClearer); ok {
			s.closeErr = c.ClearStore(context.WithoutCancel(ctx))
			if s.view.Observer != nil {
				s.view.Observer.ObserveStoreClear()
			}
		}
		s.log.Debug().
			Dur("mounted_for", s.view.now().Sub(s.mountedAt)).
			Msg("view unmounted")
	})
	return s.closeErr
}

// start launches the fetch for a new cycle. Caller holds s.mu.
func (s *Session) start(systemID string) {
	if s.fetchCancel != nil {
		s.fetchCancel()
	}
	s.gen++
	s.systemID = systemID
	s.state = domain.Loading{}
	s.done = make(chan struct{})

	fctx, cancel := context.WithCancel(s.ctx)
	s.fetchCancel = cancel
	go s.fetch(fctx, s.gen, systemID, s.done)
}

func (s *Session) fetch(ctx context.Context, gen uint64, systemID string, done chan struct{}) {
	defer close(done)
	sys, err := s.view.Client.QuerySystem(ctx, systemID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		s.view.observe(OutcomeDiscarded)
		return
	}
	if err != nil {
		s.state = domain.Failed{Err: err}
		s.view.observe(OutcomeError)
		s.log.Info().Err(err).Str("system_id", systemID).Msg("system query failed")
		return
	}
	s.state = domain.Loaded{System: sys}
	s.view.observe(OutcomeSuccess)
}

func (v *View) observe(outcome string) {
	if v.Observer != nil {
		v.Observer.ObserveSession(outcome)
	}
}

func (v *View) now() time.Time {
	if v.Clock == nil {
		return time.Now()
	}
	return v.Clock.Now()
}
