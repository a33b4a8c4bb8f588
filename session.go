package main

import (
	"context"
	"time"

	"charm-wallet-connect/connection"
	"charm-wallet-connect/rpc"

	"github.com/charmbracelet/log"
)

// -------------------- SESSION --------------------
// One RPC endpoint with its provider and connection manager. Switching
// endpoints closes the session and starts a new one, since a manager never
// re-detects its provider.

type session struct {
	id       int
	url      string
	client   *rpc.Client
	provider *rpc.Provider
	manager  *connection.Manager

	states      chan connection.State
	quit        chan struct{}
	unsubscribe func()
}

// openSession dials url (if any), wires a manager to it and initializes it.
func openSession(ctx context.Context, id int, url string, poll time.Duration, logger *log.Logger) (*session, connection.State, error) {
	s := &session{
		id:     id,
		url:    url,
		states: make(chan connection.State, 16),
		quit:   make(chan struct{}),
	}

	var dialErr error
	if url != "" {
		result := rpc.Connect(url)
		if result.Error != nil {
			dialErr = result.Error
		} else {
			s.client = result.Client
		}
	}

	s.provider = rpc.NewProvider(s.client, rpc.WithPollInterval(poll), rpc.WithLogger(logger))
	s.manager = connection.New(s.provider, connection.WithLogger(logger))
	s.unsubscribe = s.manager.Subscribe(func(st connection.State) {
		select {
		case s.states <- st:
		case <-s.quit:
		}
	})

	state := s.manager.Initialize(ctx)
	return s, state, dialErr
}

// close tears the session down. Safe on a nil session.
func (s *session) close() {
	if s == nil {
		return
	}
	select {
	case <-s.quit:
		return
	default:
	}
	close(s.quit)
	s.unsubscribe()
	s.manager.Teardown()
	s.provider.Close()
	if s.client != nil {
		s.client.Close()
	}
}
