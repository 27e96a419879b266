package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

var tokensSymbol string

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List tokens known to the aggregator",
	Long: `List the token registry (tokens.file, or the built-in list).

Examples:
  swapctl tokens
  swapctl tokens --symbol USD`,
	Args: cobra.NoArgs,
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&tokensSymbol, "symbol", "", "Filter by token symbol")
}

func runTokens(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	tokens := filterTokens(e.registry.GetAll(), tokensSymbol)
	if e.json {
		return writeJSON(e.out, tokens)
	}
	renderTokens(e.out, tokens)
	return nil
}

func filterTokens(tokens []entities.Token, symbol string) []entities.Token {
	if symbol == "" {
		return tokens
	}
	var out []entities.Token
	for _, t := range tokens {
		if strings.Contains(strings.ToUpper(t.Symbol), strings.ToUpper(symbol)) {
			out = append(out, t)
		}
	}
	return out
}

func renderTokens(w io.Writer, tokens []entities.Token) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "\nNo tokens found matching the criteria.")
		return
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 90))
	fmt.Fprintln(w, color.GreenString("  TOKENS"))
	fmt.Fprintln(w, strings.Repeat("=", 90))

	for _, t := range tokens {
		typeTag := t.TypeTag
		if len(typeTag) > 60 {
			typeTag = typeTag[:28] + "..." + typeTag[len(typeTag)-29:]
		}
		fmt.Fprintf(w, "  %-18s  %2d decimals  %s\n", color.YellowString(t.Symbol), t.Decimals, color.HiBlackString(typeTag))
	}

	fmt.Fprintf(w, "\nTotal: %d tokens\n\n", len(tokens))
}
