package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"charm-wallet-connect/config"
	"charm-wallet-connect/connection"
	"charm-wallet-connect/helpers"
	logview "charm-wallet-connect/views/log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- FORMS --------------------

func (m *model) createAddRPCForm() {
	m.draft = &rpcDraft{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Description("A friendly name for this RPC endpoint").
				Value(&m.draft.name).
				Placeholder("Local Anvil").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("RPC URL").
				Description("http(s):// or ws(s):// endpoint").
				Value(&m.draft.url).
				Placeholder("http://127.0.0.1:8545").
				Validate(validateRPCURL),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

// validateRPCURL accepts the schemes go-ethereum's rpc package can dial
func validateRPCURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid URL")
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

// -------------------- UPDATE --------------------

// Update implements tea.Model interface and handles all messages
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if m.logEnabled && m.logReady {
		m.updateLogViewport()
	}
	return next, cmd
}

func (m *model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// settings form gets every message while open
	if m.form != nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.form = nil
				m.draft = nil
				m.settingsMode = "list"
				return m, nil
			}
		}
		formModel, cmd := m.form.Update(msg)
		if f, ok := formModel.(*huh.Form); ok {
			m.form = f
		}
		switch m.form.State {
		case huh.StateCompleted:
			m.saveDraft()
			m.form = nil
			m.settingsMode = "list"
			return m, nil
		case huh.StateAborted:
			m.form = nil
			m.settingsMode = "list"
			return m, nil
		}
		return m, cmd
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.logViewport.Width = max(0, m.w-6)
		m.logViewport.Height = logview.Height(m.h)
		return m, nil

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case sessionReadyMsg:
		if msg.sess == nil {
			return m, nil
		}
		if msg.sess.id != m.sessionID {
			// superseded by a newer endpoint switch
			msg.sess.close()
			return m, nil
		}
		m.sess = msg.sess
		m.starting = false
		m.state = msg.state
		switch {
		case msg.err != nil:
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
		case m.rpcURL == "":
			m.addLog("warning", "No RPC URL configured (set ETH_RPC_URL or add one in settings)")
		default:
			m.addLog("success", fmt.Sprintf("Provider ready at `%s`: %s", m.rpcURL, m.state.Status))
		}
		return m, waitForState(m.sess)

	case stateMsg:
		if m.sess == nil || msg.id != m.sess.id {
			return m, nil
		}
		m.applyState(msg.state)
		return m, waitForState(m.sess)

	case connectResultMsg:
		if m.sess == nil || msg.id != m.sess.id {
			return m, nil
		}
		m.connecting = false
		if msg.err != nil {
			m.setNotice(connectErrorText(msg.err))
			m.addLog("error", fmt.Sprintf("Connect failed: %v", msg.err))
			return m, nil
		}
		m.applyState(msg.state)
		return m, nil

	case clipboardCopiedMsg:
		m.copiedMsg = "Copied!"
		m.copiedMsgTime = time.Now()
		return m, clearCopiedAfter()

	case clearCopiedMsg:
		if time.Since(m.copiedMsgTime) >= 2*time.Second {
			m.copiedMsg = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "l":
		return m, m.toggleLogger()
	}

	if m.logEnabled && m.logReady {
		switch msg.String() {
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
	}

	switch m.activePage {
	case config.PageSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleStatusKey(msg)
	}
}

func (m *model) handleStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.showQR {
			m.showQR = false
			return m, nil
		}
		return m, tea.Quit

	case "c", "enter":
		if m.sess == nil || m.connecting || m.state.Status != connection.StatusNotConnected {
			return m, nil
		}
		m.connecting = true
		m.notice = ""
		m.addLog("info", "Requesting account access")
		return m, connectWallet(m.sess)

	case "y":
		if !m.state.Connected() {
			return m, nil
		}
		return m, copyToClipboard(helpers.ChecksumAddr(m.state.Account))

	case "q":
		if m.state.Connected() {
			m.showQR = !m.showQR
		}
		return m, nil

	case "s":
		m.activePage = config.PageSettings
		m.selectedRPCIdx = 0
		for i, r := range m.cfg.RPCURLs {
			if r.Active {
				m.selectedRPCIdx = i
				break
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.activePage = config.PageStatus
		return m, nil

	case "up", "k":
		if m.selectedRPCIdx > 0 {
			m.selectedRPCIdx--
		}
		return m, nil

	case "down", "j":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs)-1 {
			m.selectedRPCIdx++
		}
		return m, nil

	case "a":
		m.settingsMode = "add"
		m.createAddRPCForm()
		return m, nil

	case "enter":
		if !m.cfg.SetActive(m.selectedRPCIdx) {
			return m, nil
		}
		m.saveConfig()
		m.rpcURL = m.cfg.RPCURLs[m.selectedRPCIdx].URL
		m.addLog("info", fmt.Sprintf("Switching RPC to `%s`", m.cfg.RPCURLs[m.selectedRPCIdx].Name))
		m.activePage = config.PageStatus
		return m, m.restartSession()

	case "d":
		idx := m.selectedRPCIdx
		if idx < 0 || idx >= len(m.cfg.RPCURLs) {
			return m, nil
		}
		removed := m.cfg.RPCURLs[idx]
		m.cfg.RPCURLs = append(m.cfg.RPCURLs[:idx], m.cfg.RPCURLs[idx+1:]...)
		if m.selectedRPCIdx >= len(m.cfg.RPCURLs) {
			m.selectedRPCIdx = max(0, len(m.cfg.RPCURLs)-1)
		}
		m.saveConfig()
		m.addLog("warning", fmt.Sprintf("Removed RPC `%s`", removed.Name))
		if removed.Active {
			m.cfg.SetActive(0)
			m.saveConfig()
			m.rpcURL = m.cfg.ActiveRPC("")
			return m, m.restartSession()
		}
		return m, nil
	}
	return m, nil
}

// -------------------- MODEL HELPER METHODS --------------------

// applyState records a new snapshot and logs the transition
func (m *model) applyState(s connection.State) {
	prev := m.state
	m.state = s
	if prev == s {
		return
	}
	if !s.Connected() {
		m.showQR = false
	}
	switch {
	case s.Connected() && prev.Account != s.Account:
		m.notice = ""
		m.addLog("success", fmt.Sprintf("Account %s", helpers.ShortenAddr(s.Account)))
	case prev.Connected() && !s.Connected():
		m.addLog("warning", "Wallet disconnected")
	}
	if prev.Chain != s.Chain && s.Chain != "" {
		m.addLog("info", fmt.Sprintf("Chain %s (%s)", helpers.ChainNameWith(s.Chain, m.cfg.Chains), s.Chain))
	}
}

// setNotice shows a transient message under the status line
func (m *model) setNotice(s string) {
	m.notice = s
	m.noticeTime = time.Now()
}

// saveDraft appends the endpoint entered in the add form
func (m *model) saveDraft() {
	if m.draft == nil {
		return
	}
	entry := config.RPCUrl{
		Name:   strings.TrimSpace(m.draft.name),
		URL:    strings.TrimSpace(m.draft.url),
		Active: len(m.cfg.RPCURLs) == 0,
	}
	m.draft = nil
	m.cfg.RPCURLs = append(m.cfg.RPCURLs, entry)
	m.selectedRPCIdx = len(m.cfg.RPCURLs) - 1
	m.saveConfig()
	m.addLog("success", fmt.Sprintf("Added RPC `%s`", entry.Name))
}

func (m *model) saveConfig() {
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", fmt.Sprintf("Saving config failed: %v", err))
	}
}

// toggleLogger shows or hides the log panel and persists the choice
func (m *model) toggleLogger() tea.Cmd {
	m.logEnabled = !m.logEnabled
	m.cfg.Logger = m.logEnabled
	m.saveConfig()
	if m.logEnabled && !m.logReady {
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	return nil
}

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}
}

// updateLogViewport refreshes the viewport from the shared log buffer
func (m *model) updateLogViewport() {
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.logBuffer.String())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}
