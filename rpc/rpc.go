package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"slices"
	"sync"
	"time"

	"charm-wallet-connect/connection"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC error codes the provider understands (EIP-1193 / JSON-RPC 2.0).
const (
	codeUserRejected   = 4001
	codeMethodNotFound = -32601
)

// DefaultPollInterval is how often the provider checks for account and chain changes.
const DefaultPollInterval = 2 * time.Second

// Client wraps an Ethereum RPC client
type Client struct {
	*gethrpc.Client
	URL string
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
		},
		Error: nil,
	}
}

// Provider exposes an Ethereum node as a wallet provider. Nodes have no
// push notification for account or chain changes, so while handlers are
// registered a watcher polls eth_accounts and eth_chainId and emits
// accountsChanged / chainChanged when the answers change.
type Provider struct {
	client   *Client
	interval time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	next     connection.HandlerID
	handlers map[connection.Event]map[connection.HandlerID]connection.Handler
	order    []connection.HandlerID
	stop     context.CancelFunc
	stopped  chan struct{}

	// last eth_accounts / eth_chainId answers, used as the watcher baseline
	known baseline
}

// baseline is what the caller was last told about accounts and chain.
type baseline struct {
	accounts    []string
	hasAccounts bool
	chain       string
	hasChain    bool
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithPollInterval sets how often the watcher polls the node.
func WithPollInterval(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger used for polling failures.
func WithLogger(l *log.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a Provider backed by c. A nil client yields a
// provider that reports itself as not installed.
func NewProvider(c *Client, opts ...ProviderOption) *Provider {
	p := &Provider{
		client:   c,
		interval: DefaultPollInterval,
		logger:   log.New(io.Discard),
		handlers: make(map[connection.Event]map[connection.HandlerID]connection.Handler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsInstalled reports whether an RPC client is available.
func (p *Provider) IsInstalled() bool {
	return p != nil && p.client != nil && p.client.Client != nil
}

// GetAuthorizedAccounts returns the node's accounts via eth_accounts.
func (p *Provider) GetAuthorizedAccounts(ctx context.Context) ([]string, error) {
	return p.accounts(ctx, "eth_accounts")
}

// RequestAccounts calls eth_requestAccounts. Nodes that do not implement
// it answer method-not-found, in which case eth_accounts is used.
func (p *Provider) RequestAccounts(ctx context.Context) ([]string, error) {
	accounts, err := p.accounts(ctx, "eth_requestAccounts")
	var rerr gethrpc.Error
	if errors.As(err, &rerr) && rerr.ErrorCode() == codeMethodNotFound {
		p.logger.Debug("eth_requestAccounts unsupported, using eth_accounts", "url", p.client.URL)
		return p.accounts(ctx, "eth_accounts")
	}
	return accounts, err
}

func (p *Provider) accounts(ctx context.Context, method string) ([]string, error) {
	if !p.IsInstalled() {
		return nil, connection.ErrProviderAbsent
	}
	var addrs []common.Address
	if err := p.client.CallContext(ctx, &addrs, method); err != nil {
		return nil, mapError(method, err)
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	if method == "eth_accounts" {
		p.mu.Lock()
		p.known.accounts, p.known.hasAccounts = slices.Clone(out), true
		p.mu.Unlock()
	}
	return out, nil
}

// GetChainID returns the chain id as minimal hex via eth_chainId.
func (p *Provider) GetChainID(ctx context.Context) (string, error) {
	if !p.IsInstalled() {
		return "", connection.ErrProviderAbsent
	}
	var id hexutil.Big
	if err := p.client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return "", mapError("eth_chainId", err)
	}
	chain := hexutil.EncodeBig((*big.Int)(&id))
	p.mu.Lock()
	p.known.chain, p.known.hasChain = chain, true
	p.mu.Unlock()
	return chain, nil
}

// mapError keeps the RPC error but tags it with the connection error kind.
func mapError(method string, err error) error {
	var rerr gethrpc.Error
	if errors.As(err, &rerr) && rerr.ErrorCode() == codeUserRejected {
		return fmt.Errorf("%s: %w: %w", method, connection.ErrUserRejected, err)
	}
	return fmt.Errorf("%s: %w: %w", method, connection.ErrProviderTransport, err)
}

// On registers h for event and starts the watcher on first registration.
// The watcher compares against the last answers this provider gave, so a
// change made after a caller's initial query is still reported.
func (p *Provider) On(event connection.Event, h connection.Handler) connection.HandlerID {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.next++
	id := p.next
	if p.handlers[event] == nil {
		p.handlers[event] = make(map[connection.HandlerID]connection.Handler)
	}
	p.handlers[event][id] = h
	p.order = append(p.order, id)

	if p.stop == nil && p.IsInstalled() {
		ctx, cancel := context.WithCancel(context.Background())
		p.stop = cancel
		p.stopped = make(chan struct{})
		base := p.known
		base.accounts = slices.Clone(base.accounts)
		go p.watch(ctx, p.stopped, base)
	}
	return id
}

// Off removes a handler and stops the watcher when none remain.
func (p *Provider) Off(event connection.Event, id connection.HandlerID) {
	p.mu.Lock()
	delete(p.handlers[event], id)
	p.order = slices.DeleteFunc(p.order, func(x connection.HandlerID) bool { return x == id })
	idle := len(p.order) == 0
	p.mu.Unlock()

	if idle {
		p.Close()
	}
}

// Close stops the watcher. Registered handlers are kept.
func (p *Provider) Close() {
	p.mu.Lock()
	stop, stopped := p.stop, p.stopped
	p.stop, p.stopped = nil, nil
	p.mu.Unlock()

	if stop != nil {
		stop()
		<-stopped
	}
}

func (p *Provider) watch(ctx context.Context, stopped chan struct{}, base baseline) {
	defer close(stopped)

	poll := func() {
		accounts, err := p.GetAuthorizedAccounts(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Debug("poll eth_accounts failed", "err", err)
			}
			return
		}
		chain, err := p.GetChainID(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Debug("poll eth_chainId failed", "err", err)
			}
			return
		}

		if base.hasChain && chain != base.chain {
			p.emit(ctx, connection.EventChainChanged, chain)
		}
		base.chain, base.hasChain = chain, true
		if base.hasAccounts && !slices.Equal(accounts, base.accounts) {
			p.emit(ctx, connection.EventAccountsChanged, slices.Clone(accounts))
		}
		base.accounts, base.hasAccounts = accounts, true
	}

	// without earlier answers the first poll only records the baseline;
	// with them it waits a tick so every handler is registered first
	if !base.hasAccounts || !base.hasChain {
		poll()
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

// emit calls handlers for event in registration order on the watcher goroutine.
func (p *Provider) emit(ctx context.Context, event connection.Event, payload any) {
	p.mu.Lock()
	var hs []connection.Handler
	for _, id := range p.order {
		if h, ok := p.handlers[event][id]; ok {
			hs = append(hs, h)
		}
	}
	p.mu.Unlock()

	for _, h := range hs {
		if ctx.Err() != nil {
			return
		}
		h(payload)
	}
}
