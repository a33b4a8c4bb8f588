package main

import (
	"time"

	"charm-wallet-connect/config"
	"charm-wallet-connect/connection"
	"charm-wallet-connect/helpers"
	logview "charm-wallet-connect/views/log"
	"charm-wallet-connect/views/settings"
	"charm-wallet-connect/views/status"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

const noticeTTL = 6 * time.Second

func (m *model) globalHeader() string {
	title := helpers.FadeString("charm wallet connect", "#F25D94", "#EDFF82")

	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	switch {
	case m.rpcURL == "":
		statusIcon, statusColor, statusText = "○", lipgloss.Color("#c01c28"), "No RPC"
	case m.starting:
		statusIcon, statusColor, statusText = "○", cWarn, "Detecting..."
	case m.state.Status == connection.StatusNotInstalled:
		statusIcon, statusColor, statusText = "○", lipgloss.Color("#c01c28"), "Provider unavailable"
	default:
		statusIcon, statusColor, statusText = "●", cAccent, m.rpcName()
	}

	rpcDisplay := lipgloss.NewStyle().Foreground(statusColor).Render(statusIcon) + " " +
		lipgloss.NewStyle().Foreground(cMuted).Render(statusText)

	gap := max(1, m.w-8-lipgloss.Width(title)-lipgloss.Width(rpcDisplay))
	return title + lipgloss.NewStyle().Width(gap).Render("") + rpcDisplay
}

// rpcName returns the configured name of the active endpoint, or its URL
func (m *model) rpcName() string {
	for _, r := range m.cfg.RPCURLs {
		if r.URL == m.rpcURL && r.Name != "" {
			return r.Name
		}
	}
	return m.rpcURL
}

// View implements tea.Model and renders the whole screen
func (m *model) View() string {
	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var pageContent string
	var nav string

	switch m.activePage {
	case config.PageSettings:
		content := settings.Render(m.cfg.RPCURLs, m.selectedRPCIdx)
		if m.form != nil {
			content = titleStyle.Render("Add RPC") + "\n\n" + m.form.View()
		}
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(content)
		nav = settings.Nav(m.w-2, m.settingsMode)

	default:
		notice := ""
		if m.notice != "" && time.Since(m.noticeTime) < noticeTTL {
			notice = m.notice
		}
		content := m.spin.View() + " detecting wallet provider…"
		if !m.starting {
			content = status.Render(m.state, m.cfg.Chains, m.connecting, m.spin.View(), notice)
		}
		if m.copiedMsg != "" {
			content += "\n\n" + lipgloss.NewStyle().Foreground(cAccent).Render(m.copiedMsg)
		}
		if m.state.Connected() {
			if contracts := status.RenderContracts(m.cfg.ContractsFor(m.state.Chain)); contracts != "" {
				content += "\n\n" + contracts
			}
		}
		if m.showQR {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, "    ", status.RenderQR(m.state))
		}
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(content)
		nav = status.Nav(m.w-2, m.state, m.connecting)
	}

	sections := []string{headerPanel, pageContent, nav}
	if m.logEnabled {
		m.logViewport.Height = logview.Height(m.h)
		sections = append(sections, logview.Render(m.w, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
