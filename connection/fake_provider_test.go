package connection

import (
	"context"
	"sync"
	"sync/atomic"
)

// fakeProvider is an in-memory Provider. RequestAccounts blocks on gate
// when it is set and ignores cancellation so tests can control exactly when
// a request resolves.
type fakeProvider struct {
	mu sync.Mutex

	installed  bool
	authorized []string
	authErr    error
	chain      string
	chainErr   error

	requested  []string
	requestErr error
	gate       chan struct{}

	// chainHook runs inside GetChainID, outside the lock, before it returns
	chainHook func()

	requestCalls atomic.Int32
	returned     chan struct{}

	next     HandlerID
	handlers map[Event]map[HandlerID]Handler
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		installed: true,
		chain:     "0x7a69",
		returned:  make(chan struct{}, 16),
		handlers:  make(map[Event]map[HandlerID]Handler),
	}
}

func (f *fakeProvider) IsInstalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed
}

func (f *fakeProvider) GetAuthorizedAccounts(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authorized...), f.authErr
}

func (f *fakeProvider) RequestAccounts(context.Context) ([]string, error) {
	f.requestCalls.Add(1)
	defer func() { f.returned <- struct{}{} }()

	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...), f.requestErr
}

func (f *fakeProvider) GetChainID(context.Context) (string, error) {
	f.mu.Lock()
	chain, err, hook := f.chain, f.chainErr, f.chainHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return chain, err
}

func (f *fakeProvider) setChainHook(h func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chainHook = h
}

func (f *fakeProvider) On(event Event, h Handler) HandlerID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	if f.handlers[event] == nil {
		f.handlers[event] = make(map[HandlerID]Handler)
	}
	f.handlers[event][f.next] = h
	return f.next
}

func (f *fakeProvider) Off(event Event, id HandlerID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers[event], id)
}

func (f *fakeProvider) handlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, hs := range f.handlers {
		n += len(hs)
	}
	return n
}

// emit delivers payload to every handler for event, sequentially.
func (f *fakeProvider) emit(event Event, payload any) {
	f.mu.Lock()
	hs := make([]Handler, 0, len(f.handlers[event]))
	for _, h := range f.handlers[event] {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(payload)
	}
}
