package helpers

import (
	"image/color"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
)

// UnknownChain is the display name for chain ids missing from the table.
const UnknownChain = "Unknown chain!"

// ChainNames maps hex chain ids to display names.
var ChainNames = map[string]string{
	"0x1":    "Mainnet",
	"0x7a69": "Anvil",
}

var ethAddressRe = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

// ShortenAddr shortens an Ethereum address for display
func ShortenAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// ChainName resolves a chain id using the built-in table.
func ChainName(chain string) string {
	return ChainNameWith(chain, nil)
}

// ChainNameWith resolves a chain id, consulting extra before the built-in
// table. Lookups are case-insensitive on the hex digits.
func ChainNameWith(chain string, extra map[string]string) string {
	id := strings.ToLower(strings.TrimSpace(chain))
	if name, ok := extra[id]; ok && name != "" {
		return name
	}
	if name, ok := ChainNames[id]; ok {
		return name
	}
	return UnknownChain
}

// IsValidEthAddress checks if a string is a valid Ethereum address
func IsValidEthAddress(s string) bool {
	return ethAddressRe.MatchString(s)
}

// ChecksumAddr returns the EIP-55 form of a valid address, or addr unchanged.
func ChecksumAddr(addr string) string {
	if !IsValidEthAddress(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}

// FadeString creates a gradient colored string
func FadeString(s string, firstColor string, lastColor string) string {
	if s == "" {
		return s
	}
	blends := gamut.Blends(lipgloss.Color(firstColor), lipgloss.Color(lastColor), len([]rune(s)))
	return rainbow(lipgloss.NewStyle(), s, blends)
}

func rainbow(baseStyle lipgloss.Style, str string, colors []color.Color) string {
	var b strings.Builder
	i := 0
	for _, c := range str {
		col, _ := colorful.MakeColor(colors[i%len(colors)])
		b.WriteString(baseStyle.Foreground(lipgloss.Color(col.Hex())).Render(string(c)))
		i++
	}
	return b.String()
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
