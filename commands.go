package main

import (
	"context"
	"errors"
	"time"

	"charm-wallet-connect/connection"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

const (
	initTimeout    = 10 * time.Second
	connectTimeout = 5 * time.Minute
)

// startSession dials the endpoint and initializes a connection manager
func startSession(id int, url string, poll time.Duration, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
		defer cancel()
		sess, state, err := openSession(ctx, id, url, poll, logger)
		return sessionReadyMsg{sess: sess, state: state, err: err}
	}
}

// waitForState delivers the next snapshot published by the session's manager
func waitForState(sess *session) tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-sess.states:
			return stateMsg{id: sess.id, state: st}
		case <-sess.quit:
			return nil
		}
	}
}

// connectWallet asks the provider for account access
func connectWallet(sess *session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		st, err := sess.manager.Connect(ctx)
		return connectResultMsg{id: sess.id, state: st, err: err}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{}
		}
		return nil
	}
}

// clearCopiedAfter waits 2 seconds then clears clipboard feedback
func clearCopiedAfter() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// connectErrorText turns a connect failure into a short notice
func connectErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, connection.ErrUserRejected):
		return "Connection request rejected."
	case errors.Is(err, connection.ErrNoAccounts):
		return "Wallet returned no accounts."
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out waiting for approval."
	case errors.Is(err, connection.ErrTornDown):
		return ""
	default:
		return "Connection failed: " + err.Error()
	}
}
