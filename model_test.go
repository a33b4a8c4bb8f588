package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"charm-wallet-connect/config"
	"charm-wallet-connect/connection"
	"charm-wallet-connect/rpc"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

func newTestModel(t *testing.T) *model {
	t.Helper()
	t.Setenv("ETH_RPC_URL", "")
	m := newModel(options{configPath: filepath.Join(t.TempDir(), "config.json")})
	t.Cleanup(m.shutdown)
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_RPCPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ETH_RPC_URL", "http://env:8545")

	m := newModel(options{configPath: filepath.Join(dir, "a.json"), rpcURL: "http://flag:8545"})
	assert.Equal(t, "http://flag:8545", m.rpcURL)

	m = newModel(options{configPath: filepath.Join(dir, "b.json")})
	assert.Equal(t, "http://127.0.0.1:8545", m.rpcURL, "default config has an active endpoint")

	path := filepath.Join(dir, "c.json")
	require.NoError(t, config.Save(path, config.Config{}))
	m = newModel(options{configPath: path})
	assert.Equal(t, "http://env:8545", m.rpcURL)
}

func TestOpenSession_NoRPC(t *testing.T) {
	t.Parallel()

	sess, state, err := openSession(context.Background(), 1, "", 0, newLogger(&logBuffer{}))
	require.NoError(t, err)
	defer sess.close()

	assert.Equal(t, connection.State{Status: connection.StatusNotInstalled}, state)
	st, err := sess.manager.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, connection.StatusNotInstalled, st.Status)

	sess.close()
	sess.close()
}

func TestUpdate_SessionLifecycle(t *testing.T) {
	m := newTestModel(t)
	m.rpcURL = ""
	cmd := m.restartSession()
	require.NotNil(t, cmd)
	assert.True(t, m.starting)

	msg := cmd()
	ready, ok := msg.(sessionReadyMsg)
	require.True(t, ok)
	m.Update(ready)
	assert.False(t, m.starting)
	assert.Equal(t, connection.StatusNotInstalled, m.state.Status)

	// a stale session is closed and ignored
	stale, _, _ := openSession(context.Background(), m.sessionID-1, "", 0, m.logger)
	m.Update(sessionReadyMsg{sess: stale, state: connection.State{Status: connection.StatusNotConnected}})
	assert.Equal(t, connection.StatusNotInstalled, m.state.Status)
	select {
	case <-stale.quit:
	default:
		t.Fatal("stale session was not closed")
	}

	// connect is a no-op without a provider
	_, cmd = m.Update(keyMsg("c"))
	assert.Nil(t, cmd)
	assert.False(t, m.connecting)
}

func TestUpdate_StateAndConnectResult(t *testing.T) {
	m := newTestModel(t)
	m.sess = &session{id: 7, states: make(chan connection.State, 1), quit: make(chan struct{})}
	m.sess.unsubscribe = func() {}
	m.sess.provider = rpc.NewProvider(nil)
	m.sess.manager = connection.New(m.sess.provider)
	m.state = connection.State{Status: connection.StatusNotConnected, Chain: "0x7a69"}

	m.Update(stateMsg{id: 6, state: connection.State{Status: connection.StatusConnected, Account: testAccount}})
	assert.Equal(t, connection.StatusNotConnected, m.state.Status, "other sessions are ignored")

	m.connecting = true
	m.Update(connectResultMsg{id: 7, err: fmt.Errorf("wrap: %w", connection.ErrUserRejected)})
	assert.False(t, m.connecting)
	assert.Equal(t, "Connection request rejected.", m.notice)

	connected := connection.State{Status: connection.StatusConnected, Account: testAccount, Chain: "0x7a69"}
	m.Update(connectResultMsg{id: 7, state: connected})
	assert.Equal(t, connected, m.state)
	assert.Empty(t, m.notice)

	m.Update(keyMsg("q"))
	assert.True(t, m.showQR)
	assert.Contains(t, m.View(), "ethereum:"+testAccount)

	m.Update(stateMsg{id: 7, state: connection.State{Status: connection.StatusNotConnected, Chain: "0x7a69"}})
	assert.False(t, m.showQR, "QR hides when the account goes away")
}

func TestUpdate_SettingsEndpoints(t *testing.T) {
	m := newTestModel(t)
	m.cfg.RPCURLs = []config.RPCUrl{
		{Name: "Anvil", URL: "http://127.0.0.1:8545", Active: true},
		{Name: "Other", URL: "http://127.0.0.1:9545"},
	}

	m.Update(keyMsg("s"))
	require.Equal(t, config.PageSettings, m.activePage)
	assert.Equal(t, 0, m.selectedRPCIdx)

	m.Update(keyMsg("down"))
	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd, "activating an endpoint restarts the session")
	assert.Equal(t, "http://127.0.0.1:9545", m.rpcURL)
	assert.Equal(t, config.PageStatus, m.activePage)
	assert.True(t, config.Load(m.configPath).RPCURLs[1].Active)

	m.Update(keyMsg("s"))
	assert.Equal(t, 1, m.selectedRPCIdx)
	_, cmd = m.Update(keyMsg("d"))
	require.NotNil(t, cmd, "deleting the active endpoint restarts the session")
	require.Len(t, m.cfg.RPCURLs, 1)
	assert.True(t, m.cfg.RPCURLs[0].Active)
	assert.Equal(t, "http://127.0.0.1:8545", m.rpcURL)

	m.Update(keyMsg("a"))
	require.NotNil(t, m.form)
	m.Update(keyMsg("esc"))
	assert.Nil(t, m.form)
}

func TestSaveDraft(t *testing.T) {
	m := newTestModel(t)
	m.cfg.RPCURLs = nil
	m.draft = &rpcDraft{name: " Local ", url: " http://localhost:8545 "}

	m.saveDraft()
	require.Len(t, m.cfg.RPCURLs, 1)
	assert.Equal(t, config.RPCUrl{Name: "Local", URL: "http://localhost:8545", Active: true}, m.cfg.RPCURLs[0])
	assert.Nil(t, m.draft)
}

func TestValidateRPCURL(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"http://127.0.0.1:8545", "https://ethereum-rpc.publicnode.com", "wss://node.example/ws"} {
		assert.NoError(t, validateRPCURL(ok), ok)
	}
	for _, bad := range []string{"", "localhost:8545", "ftp://host", "http://"} {
		assert.Error(t, validateRPCURL(bad), bad)
	}
}

func TestConnectErrorText(t *testing.T) {
	t.Parallel()

	assert.Empty(t, connectErrorText(nil))
	assert.Empty(t, connectErrorText(connection.ErrTornDown))
	assert.Equal(t, "Wallet returned no accounts.", connectErrorText(connection.ErrNoAccounts))
	assert.Equal(t, "Timed out waiting for approval.", connectErrorText(context.DeadlineExceeded))
	assert.Equal(t, "Connection failed: boom", connectErrorText(errors.New("boom")))
}
