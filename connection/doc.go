// Package connection tracks the link between the UI and a wallet provider.
//
// A Manager is the only component that talks to the injected Provider. It
// detects the provider once, asks it for already-authorized accounts,
// requests permission on Connect and follows the provider's
// accountsChanged/chainChanged events. Everything else reads the resulting
// State through Snapshot or a subscribed Listener.
//
// # State machine
//
//	not_installed   terminal for the lifetime of the Manager
//	not_connected ──Connect / accountsChanged([a, ...])──▶ connected
//	connected     ──accountsChanged([])──────────────────▶ not_connected
//
// chainChanged updates the chain in place in either live state. When the
// account list becomes empty the last known chain is kept.
//
// # Concurrency
//
// Every transition runs on a single goroutine owned by the Manager, so
// provider events are applied strictly in emission order and listeners
// never see a half-applied State. Provider calls that may block
// (GetAuthorizedAccounts, RequestAccounts) run outside that goroutine and
// post their results back. A result that arrives after Teardown is
// dropped.
//
// Listeners are invoked on the Manager goroutine. They may call Snapshot
// and Subscribe, but must not block on Connect or Teardown.
package connection
