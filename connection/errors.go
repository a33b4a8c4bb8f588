package connection

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderAbsent means no wallet provider was detected.
	ErrProviderAbsent = errors.New("wallet provider not installed")
	// ErrUserRejected means the user declined the permission request.
	ErrUserRejected = errors.New("user rejected the request")
	// ErrProviderTransport covers RPC and communication failures.
	ErrProviderTransport = errors.New("provider transport error")
	// ErrMalformedEvent marks an event or result payload that could not be parsed.
	ErrMalformedEvent = errors.New("malformed provider payload")
	// ErrNoAccounts means the provider granted access but returned no account.
	ErrNoAccounts = errors.New("provider returned no accounts")
	// ErrNotInitialized is returned by Connect before Initialize.
	ErrNotInitialized = errors.New("connection manager not initialized")
	// ErrTornDown is returned to callers still waiting when Teardown runs.
	ErrTornDown = errors.New("connection manager torn down")
)

// classify maps a provider failure onto ErrUserRejected or ErrProviderTransport.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserRejected), errors.Is(err, ErrProviderTransport):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrProviderTransport, err)
	}
}
