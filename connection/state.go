package connection

// Status is the coarse connection status exposed to the display layer.
type Status string

const (
	StatusNotInstalled Status = "not_installed"
	StatusNotConnected Status = "not_connected"
	StatusConnected    Status = "connected"
)

func (s Status) String() string { return string(s) }

// State is an immutable snapshot of the connection. Account and Chain are
// empty when absent.
type State struct {
	Status  Status
	Account string
	Chain   string
}

// Connected reports whether an account is available.
func (s State) Connected() bool {
	return s.Status == StatusConnected
}

// Valid reports whether the snapshot satisfies the connection invariants:
// an account is present exactly when connected, and no chain is reported
// without a provider.
func (s State) Valid() bool {
	if (s.Status == StatusConnected) != (s.Account != "") {
		return false
	}
	if s.Status == StatusNotInstalled && s.Chain != "" {
		return false
	}
	switch s.Status {
	case StatusNotInstalled, StatusNotConnected, StatusConnected:
		return true
	default:
		return false
	}
}

func notInstalled() State {
	return State{Status: StatusNotInstalled}
}
