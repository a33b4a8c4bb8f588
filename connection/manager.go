package connection

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Manager owns the connection State and is the sole caller and sole event
// subscriber of its Provider.
type Manager struct {
	provider Provider
	logger   *log.Logger

	// published snapshot, written only by the loop
	mu    sync.RWMutex
	state State

	listeners listenerRegistry

	ops      chan func()
	done     chan struct{}
	loopDone chan struct{}

	// lifetime of outstanding provider requests
	ctx    context.Context
	cancel context.CancelFunc

	initOnce     sync.Once
	teardownOnce sync.Once

	// provider handler registrations
	hmu      sync.Mutex
	closed   bool
	handlers map[Event]HandlerID

	// loop-owned
	initialized bool
	pending     *connectRequest
	nextRequest uint64
}

// connectRequest is the single in-flight permission request. Callers that
// arrive while it is outstanding wait on done instead of prompting again.
type connectRequest struct {
	id uint64
	// joins counts callers that attached to the request, including any
	// whose ctx has since expired.
	joins int
	done  chan struct{}
	state State
	err   error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for transitions and dropped events.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Manager for p and starts its event loop. A nil provider is
// treated as not installed. Call Teardown to release it.
func New(p Provider, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		provider: p,
		logger:   log.New(io.Discard),
		state:    notInstalled(),
		ops:      make(chan func()),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		handlers: make(map[Event]HandlerID),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.loop()
	return m
}

func (m *Manager) loop() {
	defer close(m.loopDone)
	for {
		select {
		case fn := <-m.ops:
			select {
			case <-m.done:
				return
			default:
			}
			fn()
		case <-m.done:
			return
		}
	}
}

// post hands fn to the loop. It reports false once the Manager is torn down.
func (m *Manager) post(fn func()) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.ops <- fn:
		return true
	case <-m.done:
		return false
	}
}

// Snapshot returns the latest published State.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn for every new State and returns a func that
// removes it. The returned func is safe to call more than once.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := m.listeners.add(fn)
	var once sync.Once
	return func() {
		once.Do(func() { m.listeners.remove(id) })
	}
}

// Initialize detects the provider and loads the already-authorized
// account. It runs once; later calls return the current State. Provider
// failures degrade to StatusNotInstalled.
func (m *Manager) Initialize(ctx context.Context) State {
	m.initOnce.Do(func() { m.initialize(ctx) })
	return m.Snapshot()
}

func (m *Manager) initialize(ctx context.Context) {
	next, err := m.detect(ctx)
	if err != nil {
		m.logger.Warn("provider unavailable", "err", err)
		next = notInstalled()
	}

	applied := make(chan struct{})
	ok := m.post(func() {
		defer close(applied)
		m.initialized = true
		m.apply(next)
	})
	if !ok {
		return
	}
	select {
	case <-applied:
	case <-m.done:
		return
	}

	if next.Status != StatusNotInstalled {
		m.watch()
	}
}

// detect queries the provider without prompting.
func (m *Manager) detect(ctx context.Context) (State, error) {
	if m.provider == nil || !m.provider.IsInstalled() {
		return notInstalled(), ErrProviderAbsent
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.ctx, cancel)
	defer stop()

	raw, err := m.provider.GetAuthorizedAccounts(ctx)
	if err != nil {
		return State{}, classify(err)
	}
	accounts, err := parseAccounts(raw)
	if err != nil {
		return State{}, err
	}

	rawChain, err := m.provider.GetChainID(ctx)
	if err != nil {
		return State{}, classify(err)
	}
	chain, err := parseChain(rawChain)
	if err != nil {
		return State{}, err
	}

	if len(accounts) == 0 {
		return State{Status: StatusNotConnected, Chain: chain}, nil
	}
	return State{Status: StatusConnected, Account: accounts[0], Chain: chain}, nil
}

// watch registers the provider event handlers unless Teardown already ran.
func (m *Manager) watch() {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	if m.closed {
		return
	}
	m.handlers[EventAccountsChanged] = m.provider.On(EventAccountsChanged, func(payload any) {
		m.post(func() { m.onAccountsChanged(payload) })
	})
	m.handlers[EventChainChanged] = m.provider.On(EventChainChanged, func(payload any) {
		m.post(func() { m.onChainChanged(payload) })
	})
}

// Connect asks the provider for permission. It only acts while
// StatusNotConnected; otherwise it returns the current State. Concurrent
// calls share one provider request. ctx bounds only this caller's wait.
func (m *Manager) Connect(ctx context.Context) (State, error) {
	type started struct {
		req   *connectRequest
		state State
		err   error
	}
	reply := make(chan started, 1)
	ok := m.post(func() {
		req, state, err := m.beginConnect()
		reply <- started{req: req, state: state, err: err}
	})
	if !ok {
		return m.Snapshot(), ErrTornDown
	}

	var s started
	select {
	case s = <-reply:
	case <-m.done:
		return m.Snapshot(), ErrTornDown
	}
	if s.req == nil {
		return s.state, s.err
	}

	select {
	case <-s.req.done:
		return s.req.state, s.req.err
	default:
	}
	select {
	case <-s.req.done:
		return s.req.state, s.req.err
	case <-ctx.Done():
		return m.Snapshot(), ctx.Err()
	case <-m.done:
		return m.Snapshot(), ErrTornDown
	}
}

func (m *Manager) beginConnect() (*connectRequest, State, error) {
	if !m.initialized {
		return nil, m.state, ErrNotInitialized
	}
	if m.state.Status != StatusNotConnected {
		m.logger.Debug("connect ignored", "status", m.state.Status)
		return nil, m.state, nil
	}
	if m.pending != nil {
		m.pending.joins++
		m.logger.Debug("joining pending connect request", "id", m.pending.id, "joins", m.pending.joins)
		return m.pending, m.state, nil
	}

	m.nextRequest++
	req := &connectRequest{id: m.nextRequest, joins: 1, done: make(chan struct{})}
	m.pending = req
	m.logger.Info("requesting accounts", "id", req.id)
	go m.requestAccounts(req)
	return req, m.state, nil
}

// requestAccounts runs off the loop and posts its result back. After
// Teardown the post fails and the result is dropped.
func (m *Manager) requestAccounts(req *connectRequest) {
	var (
		accounts []string
		chain    string
	)
	raw, err := m.provider.RequestAccounts(m.ctx)
	if err == nil {
		accounts, err = parseAccounts(raw)
		if err != nil {
			err = errors.Join(ErrProviderTransport, err)
		}
	}
	if err == nil && len(accounts) > 0 {
		// only used when no chain is known yet
		if rawChain, chainErr := m.provider.GetChainID(m.ctx); chainErr == nil {
			chain, _ = parseChain(rawChain)
		}
	}

	if !m.post(func() { m.finishConnect(req, accounts, chain, err) }) {
		m.logger.Debug("discarding connect result after teardown", "id", req.id)
	}
}

func (m *Manager) finishConnect(req *connectRequest, accounts []string, chain string, err error) {
	if m.pending != req {
		m.logger.Debug("discarding stale connect result", "id", req.id)
		return
	}
	m.pending = nil
	defer close(req.done)

	switch {
	case err != nil:
		req.err = classify(err)
		m.logger.Warn("connect failed", "id", req.id, "err", req.err)
	case len(accounts) == 0:
		req.err = ErrNoAccounts
		m.logger.Warn("connect failed", "id", req.id, "err", req.err)
	case m.state.Status == StatusNotConnected:
		// chainChanged events applied while the request was out are newer
		// than the chain fetched alongside it
		if m.state.Chain != "" {
			chain = m.state.Chain
		}
		m.apply(State{Status: StatusConnected, Account: accounts[0], Chain: chain})
	}
	req.state = m.state
}

func (m *Manager) onAccountsChanged(payload any) {
	if !m.initialized || m.state.Status == StatusNotInstalled {
		return
	}
	accounts, err := parseAccounts(payload)
	if err != nil {
		m.logger.Debug("ignoring accountsChanged", "err", err)
		return
	}
	if len(accounts) == 0 {
		m.apply(State{Status: StatusNotConnected, Chain: m.state.Chain})
		return
	}
	m.apply(State{Status: StatusConnected, Account: accounts[0], Chain: m.state.Chain})
}

func (m *Manager) onChainChanged(payload any) {
	if !m.initialized || m.state.Status == StatusNotInstalled {
		return
	}
	chain, err := parseChain(payload)
	if err != nil {
		m.logger.Debug("ignoring chainChanged", "err", err)
		return
	}
	next := m.state
	next.Chain = chain
	m.apply(next)
}

// apply publishes next and notifies listeners. Must run on the loop.
func (m *Manager) apply(next State) {
	m.mu.Lock()
	if m.state == next {
		m.mu.Unlock()
		return
	}
	m.state = next
	m.mu.Unlock()

	m.logger.Debug("state changed", "status", next.Status, "account", next.Account, "chain", next.Chain)
	m.listeners.notify(next)
}

// Teardown removes the provider handlers, cancels any outstanding request
// and stops the loop. Pending Connect callers receive ErrTornDown. It is
// idempotent and must not be called from a Listener.
func (m *Manager) Teardown() {
	m.teardownOnce.Do(func() {
		m.hmu.Lock()
		m.closed = true
		for ev, id := range m.handlers {
			m.provider.Off(ev, id)
			delete(m.handlers, ev)
		}
		m.hmu.Unlock()

		m.cancel()
		close(m.done)
		<-m.loopDone

		m.pending = nil
		m.listeners.clear()
		m.logger.Debug("connection manager torn down")
	})
}
