package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"charm-wallet-connect/config"
	"charm-wallet-connect/connection"
	"charm-wallet-connect/rpc"
	"charm-wallet-connect/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page

	cfg        config.Config
	configPath string
	rpcURL     string

	// connection session; sessionID increases on every endpoint switch
	sess      *session
	sessionID int
	starting  bool
	state     connection.State

	// connect request in flight
	connecting bool
	notice     string
	noticeTime time.Time

	spin spinner.Model

	// account extras
	showQR        bool
	copiedMsg     string
	copiedMsgTime time.Time

	// settings state
	settingsMode   string // "list", "add"
	selectedRPCIdx int
	form           *huh.Form
	draft          *rpcDraft

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *logBuffer
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// rpcDraft backs the add-endpoint form fields
type rpcDraft struct {
	name string
	url  string
}

// logBuffer is shared by the UI and the connection manager goroutines
type logBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

// options come from the command line
type options struct {
	configPath string
	rpcURL     string
	logEnabled bool
}

// defaultConfigPath is ~/.charm-wallet-connect.json
func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".charm-wallet-connect.json")
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model with configuration from disk
func newModel(opts options) *model {
	configPath := opts.configPath
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	cfg := config.LoadOrCreate(configPath)

	// rpc URL from flag, then config, then environment
	rpcURL := strings.TrimSpace(opts.rpcURL)
	if rpcURL == "" {
		rpcURL = cfg.ActiveRPC(os.Getenv("ETH_RPC_URL"))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Will be resized in Update on first WindowSizeMsg
	vp := viewport.New(0, 5)
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	buf := &logBuffer{}

	m := &model{
		activePage:   config.PageStatus,
		cfg:          cfg,
		configPath:   configPath,
		rpcURL:       rpcURL,
		state:        connection.State{Status: connection.StatusNotInstalled},
		spin:         sp,
		settingsMode: "list",
		logEnabled:   cfg.Logger || opts.logEnabled,
		logger:       newLogger(buf),
		logBuffer:    buf,
		logViewport:  vp,
		logSpinner:   logSpin,
	}
	return m
}

// newLogger creates a styled logger writing into w
func newLogger(w *logBuffer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(log.DebugLevel)
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).SetString("ERROR"),
		},
	})
	return logger
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.restartSession()}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	return tea.Batch(cmds...)
}

// restartSession closes the current session and starts one for m.rpcURL
func (m *model) restartSession() tea.Cmd {
	m.sess.close()
	m.sess = nil
	m.sessionID++
	m.starting = true
	m.connecting = false
	m.showQR = false
	m.state = connection.State{Status: connection.StatusNotInstalled}
	return startSession(m.sessionID, m.rpcURL, m.cfg.Poll(rpc.DefaultPollInterval), m.logger)
}

// shutdown releases the active session
func (m *model) shutdown() {
	m.sess.close()
	m.sess = nil
}
