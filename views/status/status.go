package status

import (
	"fmt"
	"strconv"
	"strings"

	"charm-wallet-connect/config"
	"charm-wallet-connect/connection"
	"charm-wallet-connect/helpers"
	"charm-wallet-connect/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mdp/qrterminal/v3"
)

// Line maps a connection snapshot to its one-line status message.
func Line(s connection.State, chains map[string]string) string {
	switch s.Status {
	case connection.StatusConnected:
		return fmt.Sprintf("Connected to %s as %s!", helpers.ChainNameWith(s.Chain, chains), helpers.ShortenAddr(s.Account))
	case connection.StatusNotConnected:
		return "Wallet is not connected!"
	case connection.StatusNotInstalled:
		return "Wallet is not installed"
	default:
		return ""
	}
}

// Nav returns the navigation bar for the status view
func Nav(width int, s connection.State, connecting bool) string {
	keys := []string{}
	if s.Status == connection.StatusNotConnected && !connecting {
		keys = append(keys, styles.Key("c")+" connect")
	}
	if s.Connected() {
		keys = append(keys,
			styles.Key("y")+" copy address",
			styles.Key("q")+" QR",
		)
	}
	keys = append(keys,
		styles.Key("s")+" settings",
		styles.Key("l")+" logger",
		styles.Key("Esc")+" quit",
	)
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Render renders the connection panel
func Render(s connection.State, chains map[string]string, connecting bool, spinnerView, notice string) string {
	h := styles.TitleStyle.Render("Wallet")

	var line string
	switch s.Status {
	case connection.StatusConnected:
		line = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ") + helpers.FadeString(Line(s, chains), "#7EE787", "#79C0FF")
	case connection.StatusNotConnected:
		line = lipgloss.NewStyle().Foreground(styles.CWarn).Render("○ " + Line(s, chains))
		if connecting {
			line += "  " + spinnerView + " waiting for approval…"
		} else {
			line += "  " + styles.ButtonStyle.Render("connect")
		}
	default:
		line = lipgloss.NewStyle().Foreground(styles.CMuted).Render("○ " + Line(s, chains))
	}

	lines := []string{h, "", line}

	if s.Status != connection.StatusNotInstalled {
		muted := lipgloss.NewStyle().Foreground(styles.CMuted)
		lines = append(lines, "")
		if s.Account != "" {
			lines = append(lines, muted.Render("Account  ")+lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.ChecksumAddr(s.Account)))
		}
		if s.Chain != "" {
			lines = append(lines, muted.Render("Chain    ")+lipgloss.NewStyle().Foreground(styles.CText).Render(fmt.Sprintf("%s (%s)", helpers.ChainNameWith(s.Chain, chains), s.Chain)))
		}
	}

	if notice != "" {
		lines = append(lines, "", styles.ErrorStyle.Render(notice))
	}

	return strings.Join(lines, "\n")
}

// RenderContracts lists the configured contracts for the current chain.
func RenderContracts(contracts []config.Contract) string {
	if len(contracts) == 0 {
		return ""
	}
	lines := []string{lipgloss.NewStyle().Foreground(styles.CMuted).Render("Contracts")}
	for _, c := range contracts {
		lines = append(lines, fmt.Sprintf("%-8s  %s",
			lipgloss.NewStyle().Foreground(styles.CAccent).Render(c.Name),
			lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.ShortenAddr(c.Address)),
		))
	}
	return strings.Join(lines, "\n")
}

// PaymentURI builds an EIP-681 URI for the connected account.
func PaymentURI(s connection.State) string {
	if !s.Connected() {
		return ""
	}
	uri := "ethereum:" + helpers.ChecksumAddr(s.Account)
	if id, ok := chainNumber(s.Chain); ok {
		uri += "@" + id
	}
	return uri
}

func chainNumber(chain string) (string, bool) {
	n, err := hexutil.DecodeUint64(chain)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

// RenderQR renders the account's EIP-681 URI as a terminal QR code.
func RenderQR(s connection.State) string {
	uri := PaymentURI(s)
	if uri == "" {
		return ""
	}
	var b strings.Builder
	qrterminal.GenerateWithConfig(uri, qrterminal.Config{
		Level:          qrterminal.L,
		Writer:         &b,
		QuietZone:      1,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return b.String() + "\n" + lipgloss.NewStyle().Foreground(styles.CMuted).Render(uri)
}
