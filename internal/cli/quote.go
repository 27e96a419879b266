package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bimakw/aptos-dex-aggregator/internal/app"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <token> to <token>",
	Short: "Compare quotes from every liquidity source",
	Long: `Ask every configured source what it would pay for a swap and show the
results in source order with the best output highlighted.

Amounts are in display units of the input token.

Examples:
  swapctl quote 1 APT to USDC
  swapctl quote 250 USDC to APT --json`,
	Args: cobra.MinimumNArgs(4),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

// pair is a parsed swap with both tokens resolved
type pair struct {
	From    entities.Token
	To      entities.Token
	Amount  string
	Request entities.QuoteRequest
}

func resolvePair(registry *entities.TokenRegistry, args []string) (*pair, error) {
	parsed, err := parseSwapArgs(args)
	if err != nil {
		return nil, err
	}

	from, ok := registry.Resolve(parsed.From)
	if !ok {
		return nil, fmt.Errorf("unknown token %q (see: swapctl tokens)", parsed.From)
	}
	to, ok := registry.Resolve(parsed.To)
	if !ok {
		return nil, fmt.Errorf("unknown token %q (see: swapctl tokens)", parsed.To)
	}

	amount, ok := entities.ParseAmount(parsed.Amount)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount %q", parsed.Amount)
	}
	raw := entities.ToSmallestUnit(amount, from.Decimals)
	if !raw.IsPositive() {
		return nil, fmt.Errorf("amount %s is below the smallest unit of %s", parsed.Amount, from.Symbol)
	}

	return &pair{
		From:   from,
		To:     to,
		Amount: parsed.Amount,
		Request: entities.QuoteRequest{
			InputToken:  from.TypeTag,
			OutputToken: to.TypeTag,
			InputAmount: raw.String(),
		},
	}, nil
}

// fetchQuotes aggregates p against node behind a spinner
func fetchQuotes(ctx context.Context, e *env, node *aptos.Client, p *pair) (*entities.Quote, []entities.Quote, error) {
	agg := app.NewAggregator(e.cfg, node, e.registry, cache.NewInMemoryCache(), e.log)

	var (
		best   *entities.Quote
		quotes []entities.Quote
	)
	err := e.spin("Fetching quotes...", func() error {
		var err error
		best, quotes, err = agg.GetBestQuote(ctx, p.Request)
		return err
	})
	return best, quotes, err
}

func runQuote(cmd *cobra.Command, args []string) error {
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

	best, quotes, err := fetchQuotes(cmd.Context(), e, node, p)
	if err != nil {
		return err
	}

	if e.json {
		return writeJSON(e.out, map[string]interface{}{
			"request": p.Request,
			"best":    best,
			"quotes":  quotes,
		})
	}
	renderQuotes(e.out, p, best, quotes)
	return nil
}

func renderQuotes(w io.Writer, p *pair, best *entities.Quote, quotes []entities.Quote) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 72))
	fmt.Fprintf(w, "  %s %s %s -> %s\n", color.GreenString("QUOTES"), p.Amount, color.YellowString(p.From.Symbol), color.YellowString(p.To.Symbol))
	fmt.Fprintln(w, strings.Repeat("=", 72))

	if len(quotes) == 0 {
		fmt.Fprintln(w, "\n  No source returned a quote.")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "\n  %-12s  %18s  %8s  %10s  %s\n", "DEX", "OUTPUT", "FEE", "IMPACT", "ROUTE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 68))
	for _, q := range quotes {
		marker := " "
		name := string(q.DEX)
		if best != nil && q.DEX == best.DEX {
			marker = color.GreenString("*")
			name = color.GreenString("%-12s", name)
		} else {
			name = fmt.Sprintf("%-12s", name)
		}
		output := q.OutputAmount
		if q.Simulated {
			output += " ~"
		}
		fmt.Fprintf(w, "%s %s  %18s  %6sbp  %9s%%  %s\n", marker, name, output, q.Fee, q.PriceImpact, strings.Join(q.Route, " > "))
	}

	fmt.Fprintln(w)
	if best != nil {
		fmt.Fprintf(w, "  Best: %s %s via %s\n", color.CyanString(best.OutputAmount), p.To.Symbol, best.DEX)
	}
	if hasSimulated(quotes) {
		fmt.Fprintln(w, color.HiBlackString("  ~ priced from static fallback rates, not executable"))
	}
	fmt.Fprintln(w)
}

func hasSimulated(quotes []entities.Quote) bool {
	for _, q := range quotes {
		if q.Simulated {
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
