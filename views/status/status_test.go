package status

import (
	"testing"

	"charm-wallet-connect/config"
	"charm-wallet-connect/connection"
	"charm-wallet-connect/styles"

	"github.com/stretchr/testify/assert"
)

const account = "0xAbCdEf0123456789AbCdEf0123456789AbCdEf01"

func TestLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state connection.State
		want  string
	}{
		{"connected mainnet", connection.State{Status: connection.StatusConnected, Account: account, Chain: "0x1"}, "Connected to Mainnet as 0xAbCd...Ef01!"},
		{"connected anvil", connection.State{Status: connection.StatusConnected, Account: account, Chain: "0x7a69"}, "Connected to Anvil as 0xAbCd...Ef01!"},
		{"connected unknown", connection.State{Status: connection.StatusConnected, Account: account, Chain: "0x2"}, "Connected to Unknown chain! as 0xAbCd...Ef01!"},
		{"not connected", connection.State{Status: connection.StatusNotConnected, Chain: "0x1"}, "Wallet is not connected!"},
		{"not installed", connection.State{Status: connection.StatusNotInstalled}, "Wallet is not installed"},
		{"unknown status", connection.State{Status: "weird"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Line(tt.state, nil))
		})
	}

	sepolia := connection.State{Status: connection.StatusConnected, Account: account, Chain: "0xaa36a7"}
	assert.Equal(t, "Connected to Sepolia as 0xAbCd...Ef01!", Line(sepolia, map[string]string{"0xaa36a7": "Sepolia"}))
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := Render(connection.State{Status: connection.StatusNotConnected, Chain: "0x7a69"}, nil, true, "*", "user rejected the request")
	assert.Contains(t, out, "waiting for approval")
	assert.Contains(t, out, styles.ErrorStyle.Render("user rejected the request"))
	assert.Contains(t, out, "0x7a69")

	out = Render(connection.State{Status: connection.StatusNotInstalled}, nil, false, "", "")
	assert.Contains(t, out, "Wallet is not installed")
	assert.NotContains(t, out, "Chain")
}

func TestPaymentURI(t *testing.T) {
	t.Parallel()

	s := connection.State{Status: connection.StatusConnected, Account: "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", Chain: "0x7a69"}
	assert.Equal(t, "ethereum:0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045@31337", PaymentURI(s))

	s.Chain = ""
	assert.Equal(t, "ethereum:0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", PaymentURI(s))

	assert.Empty(t, PaymentURI(connection.State{Status: connection.StatusNotConnected}))
	assert.Empty(t, RenderQR(connection.State{Status: connection.StatusNotConnected}))
	assert.NotEmpty(t, RenderQR(connection.State{Status: connection.StatusConnected, Account: account, Chain: "0x1"}))
}

func TestRenderContracts(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RenderContracts(nil))
	out := RenderContracts([]config.Contract{{Name: "Pool", Address: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9"}})
	assert.Contains(t, out, "Pool")
	assert.Contains(t, out, "0xCf7E...0Fc9")
}
