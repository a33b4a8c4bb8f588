package connection

import "context"

// Event names a provider notification.
type Event string

const (
	EventAccountsChanged Event = "accountsChanged"
	EventChainChanged    Event = "chainChanged"
)

// Handler receives the raw payload of a provider event. accountsChanged
// carries a list of addresses, chainChanged a hex chain id.
type Handler func(payload any)

// HandlerID identifies a registered Handler so it can be removed again.
type HandlerID uint64

// Provider is the wallet capability the Manager consumes. Implementations
// must be safe for concurrent use; handlers may be invoked from any
// goroutine but must be invoked sequentially in emission order.
type Provider interface {
	IsInstalled() bool
	// GetAuthorizedAccounts returns accounts already authorized, without prompting.
	GetAuthorizedAccounts(ctx context.Context) ([]string, error)
	// RequestAccounts asks for permission and may block on user approval.
	RequestAccounts(ctx context.Context) ([]string, error)
	GetChainID(ctx context.Context) (string, error)
	On(event Event, h Handler) HandlerID
	Off(event Event, id HandlerID)
}
