package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
)

var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Show the status of a submitted transaction",
	Long: `Look up a transaction by hash, e.g. the one printed by swapctl swap.

Examples:
  swapctl tx 0x5f2c...`,
	Args: cobra.ExactArgs(1),
	RunE: runTx,
}

func init() {
	rootCmd.AddCommand(txCmd)
}

func runTx(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	node, err := e.connectNode()
	if err != nil {
		return err
	}

	var tx *aptos.Transaction
	err = e.spin("Looking up transaction...", func() error {
		var err error
		tx, err = node.TransactionByHash(cmd.Context(), args[0])
		return err
	})
	if err != nil {
		if aptos.IsNotFound(err) {
			return fmt.Errorf("transaction %s not found", args[0])
		}
		return err
	}

	if e.json {
		return writeJSON(e.out, tx)
	}
	renderTransaction(e.out, tx)
	return nil
}

// txStatus reads pending and committed transactions alike
func txStatus(tx *aptos.Transaction) string {
	switch {
	case tx.Type == "pending_transaction":
		return "pending"
	case tx.Success:
		return "success"
	default:
		return "failed"
	}
}

func renderTransaction(w io.Writer, tx *aptos.Transaction) {
	status := txStatus(tx)
	switch status {
	case "success":
		status = color.GreenString(status)
	case "failed":
		status = color.RedString(status)
	default:
		status = color.YellowString(status)
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 72))
	fmt.Fprintf(w, "  Hash:      %s\n", color.CyanString(tx.Hash))
	fmt.Fprintf(w, "  Status:    %s\n", status)
	if tx.Version != "" {
		fmt.Fprintf(w, "  Version:   %s\n", tx.Version)
	}
	if tx.VMStatus != "" {
		fmt.Fprintf(w, "  VM status: %s\n", tx.VMStatus)
	}
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
}
