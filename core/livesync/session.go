// ABOUTME: Synchronization session applying generation events to a live editor
// ABOUTME: Owns connect/reconnect/join/leave lifecycle for one editing session

package livesync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"pagesmith-api/core/content"
	"pagesmith-api/core/cssscope"
	"pagesmith-api/core/domain"
	"pagesmith-api/core/extract"
	"pagesmith-api/core/interfaces"
)

// ErrSessionClosed is returned for edits submitted after Close
var ErrSessionClosed = errors.New("livesync: session closed")

// ConnState is the connection state of a session
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateJoined
)

// String returns a readable name for the state
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	default:
		return "disconnected"
	}
}

// Config configures a Session
type Config struct {
	// PageID is the page being edited; its group is joined on the hub
	PageID string

	// ScopeID anchors the scoped surface CSS; derived from PageID when empty
	ScopeID string

	// Backoff is the reconnection schedule; DefaultBackoff when zero
	Backoff Backoff

	// NestedAtRules is passed to the scope transformer
	NestedAtRules bool

	// LeaveTimeout bounds the best-effort leave during teardown
	LeaveTimeout time.Duration
}

type editRequest struct {
	fn   func()
	done chan struct{}
}

// Session is one editing session kept in sync with the hub
type Session struct {
	cfg       Config
	transport Transport
	editor    Editor
	logger    interfaces.Logger

	closed atomic.Bool
	state  atomic.Int32

	inbox chan domain.Event
	edits chan editRequest

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}
}

// NewSession creates a session; call Start to connect
func NewSession(cfg Config, transport Transport, editor Editor, logger interfaces.Logger) *Session {
	if cfg.ScopeID == "" {
		cfg.ScopeID = domain.ScopeID(cfg.PageID)
	}
	if cfg.Backoff == (Backoff{}) {
		cfg.Backoff = DefaultBackoff()
	}
	if cfg.LeaveTimeout <= 0 {
		cfg.LeaveTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = nopLogger{}
	}

	return &Session{
		cfg:       cfg,
		transport: transport,
		editor:    editor,
		logger:    logger,
		inbox:     make(chan domain.Event),
		edits:     make(chan editRequest),
		done:      make(chan struct{}),
	}
}

// Start launches the connection and dispatch goroutines. It returns
// immediately; the session runs until Close or ctx is cancelled.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed.Load() {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(2)
	go s.dispatch(ctx)
	go s.connectLoop(ctx)
	go func() {
		s.wg.Wait()
		close(s.done)
	}()
}

// Close ends the session. The closed flag is set before anything else so
// late connect/join completions and in-flight events are discarded. Close
// blocks until the session goroutines have exited.
func (s *Session) Close() {
	s.closed.Store(true)

	s.mu.Lock()
	if !s.started {
		s.started = true
		close(s.done)
	}
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-s.done
}

// Done is closed once the session has fully stopped
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// State returns the current connection state
func (s *Session) State() ConnState {
	return ConnState(s.state.Load())
}

// Edit runs fn on the dispatch goroutine, between inbound events. Use it for
// every local batch of edits to the editor.
func (s *Session) Edit(ctx context.Context, fn func()) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	req := editRequest{fn: fn, done: make(chan struct{})}
	select {
	case s.edits <- req:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch is the only goroutine that touches the editor
func (s *Session) dispatch(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.inbox:
			s.handle(ev)
		case req := <-s.edits:
			if !s.closed.Load() {
				req.fn()
			}
			close(req.done)
		}
	}
}

func (s *Session) handle(ev domain.Event) {
	if s.closed.Load() {
		s.logger.Debug("Dropping event after session close", map[string]interface{}{
			"page_id": s.cfg.PageID,
			"event":   string(ev.Type),
		})
		return
	}

	switch ev.Type {
	case domain.EventBuildingStarted:
		s.editor.SetStatus(domain.GenerationSession{
			Phase:   domain.PhaseBuilding,
			Message: ev.Message,
		})
	case domain.EventBuildingProgress:
		s.editor.SetStatus(domain.GenerationSession{
			Phase:       domain.PhaseProgress,
			Message:     ev.Message,
			CurrentStep: ev.Step,
			TotalSteps:  ev.TotalSteps,
		})
	case domain.EventContentReplaced:
		s.replaceContent(ev)
	case domain.EventBuildingCompleted:
		s.editor.SetStatus(domain.GenerationSession{Phase: domain.PhaseIdle})
	default:
		s.logger.Warn("Ignoring unknown event", map[string]interface{}{
			"page_id": s.cfg.PageID,
			"event":   string(ev.Type),
		})
	}
}

func (s *Session) replaceContent(ev domain.Event) {
	c := content.Resolve(ev.Payload)
	if c.IsLegacy() {
		s.editor.LoadLegacy(c.Legacy)
		s.logger.Info("Loaded replacement legacy tree", map[string]interface{}{
			"page_id": s.cfg.PageID,
		})
		return
	}

	doc := c.Document
	lifted := extract.Extract(doc.Markup)
	doc.Markup = lifted.Markup
	doc.Stylesheet = extract.Merge(doc.Stylesheet, lifted.Stylesheet)

	s.editor.ReplaceDocument(doc)
	s.editor.ApplyScopedStyles(cssscope.ScopeWithOptions(doc.Stylesheet, s.cfg.ScopeID,
		cssscope.Options{NestedAtRules: s.cfg.NestedAtRules}))

	s.logger.Info("Replaced document from generator", map[string]interface{}{
		"page_id":         s.cfg.PageID,
		"extracted_rules": len(lifted.Rules),
	})
}

// connectLoop drives Disconnected -> Connecting -> Joined and reconnects
// until the session is closed.
func (s *Session) connectLoop(ctx context.Context) {
	defer s.wg.Done()
	defer s.setState(StateDisconnected)

	attempt := 0
	for {
		if s.stopped(ctx) {
			return
		}

		s.setState(StateConnecting)
		err := s.transport.Connect(ctx)
		if s.stopped(ctx) {
			// connect resolved after teardown
			if err == nil {
				_ = s.transport.Disconnect()
			}
			return
		}
		if err != nil {
			s.logger.Warn("Hub connect failed", map[string]interface{}{
				"page_id": s.cfg.PageID,
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			if !s.wait(ctx, attempt) {
				return
			}
			attempt++
			continue
		}

		if err := s.transport.Join(ctx, s.cfg.PageID); err != nil {
			_ = s.transport.Disconnect()
			if s.stopped(ctx) {
				return
			}
			s.logger.Warn("Hub join failed", map[string]interface{}{
				"page_id": s.cfg.PageID,
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			if !s.wait(ctx, attempt) {
				return
			}
			attempt++
			continue
		}
		if s.stopped(ctx) {
			s.teardown()
			return
		}

		s.setState(StateJoined)
		attempt = 0
		s.logger.Info("Joined page group", map[string]interface{}{
			"page_id": s.cfg.PageID,
		})

		if !s.pump(ctx) {
			s.teardown()
			return
		}

		_ = s.transport.Disconnect()
		s.setState(StateDisconnected)
		s.logger.Warn("Hub connection lost, reconnecting", map[string]interface{}{
			"page_id": s.cfg.PageID,
		})
		if !s.wait(ctx, attempt) {
			return
		}
		attempt++
	}
}

// pump forwards transport events to the dispatcher. It returns true when the
// connection dropped and false when the session is stopping.
func (s *Session) pump(ctx context.Context) bool {
	events := s.transport.Events()
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return !s.stopped(ctx)
			}
			select {
			case s.inbox <- ev:
			case <-ctx.Done():
				return false
			}
		}
	}
}

// teardown leaves the group (best effort) and closes the connection
func (s *Session) teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LeaveTimeout)
	defer cancel()

	if err := s.transport.Leave(ctx, s.cfg.PageID); err != nil {
		s.logger.Debug("Leave during teardown failed", map[string]interface{}{
			"page_id": s.cfg.PageID,
			"error":   err.Error(),
		})
	}
	_ = s.transport.Disconnect()
}

func (s *Session) wait(ctx context.Context, attempt int) bool {
	timer := time.NewTimer(s.cfg.Backoff.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return !s.closed.Load()
	}
}

func (s *Session) stopped(ctx context.Context) bool {
	return s.closed.Load() || ctx.Err() != nil
}

func (s *Session) setState(state ConnState) {
	s.state.Store(int32(state))
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
