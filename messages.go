package main

import (
	"charm-wallet-connect/connection"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{}

// clearCopiedMsg clears the clipboard feedback
type clearCopiedMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// sessionReadyMsg carries a session whose manager finished Initialize
type sessionReadyMsg struct {
	sess  *session
	state connection.State
	err   error
}

// stateMsg carries a snapshot published by the connection manager
type stateMsg struct {
	id    int
	state connection.State
}

// connectResultMsg contains the result of a connect request
type connectResultMsg struct {
	id    int
	state connection.State
	err   error
}
