package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// -------------------- MAIN --------------------

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "charm-wallet-connect",
		Short:        "Connect to a wallet provider and follow its account and chain",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.charm-wallet-connect.json)")
	cmd.Flags().StringVar(&opts.rpcURL, "rpc", "", "RPC endpoint to use instead of the configured one")
	cmd.Flags().BoolVar(&opts.logEnabled, "log", false, "show the log panel")

	return cmd
}

func run(opts options) error {
	m := newModel(opts)
	defer m.shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
