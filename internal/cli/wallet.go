package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bimakw/aptos-dex-aggregator/internal/app"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect the configured local wallet",
}

var walletAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Connect the wallet and list its accounts with APT balances",
	Args:  cobra.NoArgs,
	RunE:  runWalletAccounts,
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletAccountsCmd)
}

type accountRow struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
	APT     string `json:"apt"`
	Active  bool   `json:"active"`
}

func runWalletAccounts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	node, err := e.connectNode()
	if err != nil {
		return err
	}

	w, err := app.NewWallet(e.cfg, node, e.log)
	if err != nil {
		return err
	}
	session, err := w.Connect(ctx)
	if err != nil {
		return fmt.Errorf("wallet connect failed: %w", err)
	}
	defer w.Disconnect()

	rows := make([]accountRow, len(session.Accounts))
	for i, addr := range session.Accounts {
		rows[i] = accountRow{Index: i, Address: addr, APT: "?", Active: i == session.ActiveAccountIndex}
		raw, err := node.CoinBalance(ctx, addr, entities.APT.TypeTag)
		if err != nil {
			e.log.Warn().Err(err).Str("address", addr).Msg("balance lookup failed")
			continue
		}
		rows[i].APT = entities.FromSmallestUnit(raw, entities.APT.Decimals).String()
	}

	if e.json {
		return writeJSON(e.out, map[string]interface{}{
			"adapter":  w.Name(),
			"network":  session.Network,
			"accounts": rows,
		})
	}
	renderAccounts(e.out, w.Name(), session.Network, rows)
	return nil
}

func renderAccounts(w io.Writer, adapter, network string, rows []accountRow) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 90))
	fmt.Fprintf(w, "  %s %s on %s\n", color.GreenString("WALLET"), adapter, color.CyanString(network))
	fmt.Fprintln(w, strings.Repeat("=", 90))

	for _, r := range rows {
		marker := " "
		if r.Active {
			marker = color.GreenString("*")
		}
		fmt.Fprintf(w, "%s [%d] %s  %s APT\n", marker, r.Index, r.Address, r.APT)
	}
	fmt.Fprintln(w)
}
