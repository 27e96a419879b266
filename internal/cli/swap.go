package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bimakw/aptos-dex-aggregator/internal/app"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/wallet"
)

var (
	swapReceiver string
	swapAccount  int
	swapYes      bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token> to <token>",
	Short: "Execute a swap at the best available quote",
	Long: `Aggregate quotes, pick the best one and submit the swap through the
configured wallet adapter. Keys are read from the variable named by
wallet.keys_env (APTOS_PRIVATE_KEYS by default), comma separated.

Examples:
  swapctl swap 1 APT to USDC
  swapctl swap 1 APT to USDC --receiver 0xdef... --yes
  swapctl swap 25 USDC to APT --account 1   # pontem adapter only`,
	Args: cobra.MinimumNArgs(4),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapReceiver, "receiver", "", "Deliver the output to this address instead of the sender")
	swapCmd.Flags().IntVar(&swapAccount, "account", 0, "Account index to sign with")
	swapCmd.Flags().BoolVarP(&swapYes, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	p, err := resolvePair(e.registry, args)
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
	if _, err := w.Connect(ctx); err != nil {
		return fmt.Errorf("wallet connect failed: %w", err)
	}
	defer w.Disconnect()

	if swapAccount != 0 {
		switcher, ok := w.(wallet.AccountSwitcher)
		if !ok {
			return fmt.Errorf("%s wallet cannot switch accounts", w.Name())
		}
		if err := switcher.SwitchAccount(swapAccount); err != nil {
			return err
		}
	}

	sender, ok := w.Session().ActiveAccount()
	if !ok {
		return wallet.ErrNotConnected
	}

	raw, err := node.CoinBalance(ctx, sender, p.From.TypeTag)
	if err != nil {
		return err
	}
	balance := entities.FromSmallestUnit(raw, p.From.Decimals)

	best, quotes, err := fetchQuotes(ctx, e, node, p)
	if err != nil {
		return err
	}
	if !e.json {
		renderQuotes(e.out, p, best, quotes)
	}

	intent := entities.SwapIntent{
		FromToken:   p.From,
		ToToken:     p.To,
		InputAmount: p.Amount,
		Quote:       best,
		Receiver:    strings.TrimSpace(swapReceiver),
	}

	if !swapYes && !e.json {
		renderSwapSummary(e.out, sender, balance, intent)
		if !confirm("Proceed with swap?") {
			fmt.Fprintln(e.out, "\nSwap cancelled.")
			return nil
		}
	}

	exec := services.NewExecutionService(app.ExecutionConfig(e.cfg), e.log)

	var attempt *entities.SwapAttempt
	_ = e.spin("Submitting swap...", func() error {
		attempt = exec.Execute(ctx, w, intent, balance)
		return nil
	})

	if e.json {
		return writeJSON(e.out, swapResult(attempt))
	}
	return renderAttempt(e.out, attempt)
}

func swapResult(a *entities.SwapAttempt) map[string]interface{} {
	out := map[string]interface{}{
		"state":   a.State.String(),
		"payload": a.Payload,
		"quote":   a.Intent.Quote,
	}
	if a.TxHash != "" {
		out["txHash"] = a.TxHash
	}
	if a.Err != nil {
		out["error"] = a.Err.Error()
	}
	return out
}

func renderSwapSummary(w io.Writer, sender string, balance decimal.Decimal, intent entities.SwapIntent) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, color.GreenString("  SWAP"))
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "\n  Sender:    %s\n", color.CyanString(sender))
	fmt.Fprintf(w, "  Balance:   %s %s\n", balance.String(), intent.FromToken.Symbol)
	fmt.Fprintf(w, "  Pay:       %s %s\n", intent.InputAmount, color.YellowString(intent.FromToken.Symbol))
	if intent.Quote != nil {
		fmt.Fprintf(w, "  Receive:   ~%s %s via %s\n", intent.Quote.OutputAmount, color.YellowString(intent.ToToken.Symbol), intent.Quote.DEX)
	}
	if intent.Mode() == entities.SwapModeCrossAddress {
		fmt.Fprintf(w, "  Receiver:  %s\n", color.CyanString(intent.Receiver))
	}
}

// renderAttempt prints the outcome; rejected and failed attempts return
// their error so the process exits non-zero.
func renderAttempt(w io.Writer, a *entities.SwapAttempt) error {
	switch a.State {
	case entities.SwapConfirmed:
		fmt.Fprintf(w, "\n%s\n", color.GreenString("Swap submitted"))
		fmt.Fprintf(w, "  Transaction: %s\n", color.CyanString(a.TxHash))
		fmt.Fprintf(w, "  Function:    %s\n", a.Payload.Function)
		fmt.Fprintf(w, "  Arguments:   %s\n\n", strings.Join(a.Payload.Arguments, ", "))
		return nil
	case entities.SwapRejected:
		return fmt.Errorf("swap rejected: %w", a.Err)
	case entities.SwapFailed:
		return fmt.Errorf("wallet: %w", a.Err)
	default:
		return errors.New("swap ended in state " + a.State.String())
	}
}

func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s (y/N): ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
