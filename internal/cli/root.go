// Package cli implements swapctl, an operator tool for quoting and
// executing swaps through the aggregator from a terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bimakw/aptos-dex-aggregator/internal/app"
	"github.com/bimakw/aptos-dex-aggregator/internal/config"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/logging"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "swapctl",
	Short: "Quote and execute Aptos swaps across Liquidswap, PancakeSwap, Aries and Panora",
	Long: `swapctl queries every configured Aptos liquidity source for a swap, picks
the best output and can sign and submit the swap through a local wallet.

Examples:
  swapctl quote 1 APT to USDC
  swapctl swap 1 APT to USDC --yes
  swapctl swap 10 USDC to APT --receiver 0xabc... --account 1
  swapctl tx 0x5f2c...
  swapctl wallet accounts
  swapctl tokens --symbol USD`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command until it finishes or SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// env is what every command needs after flags are parsed
type env struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *entities.TokenRegistry
	json     bool
	out      io.Writer
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logging.NewWithWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}, level)

	return &env{
		cfg:      cfg,
		log:      log,
		registry: app.LoadRegistry(cfg, log),
		json:     jsonOutput,
		out:      cmd.OutOrStdout(),
	}, nil
}

func (e *env) connectNode() (*aptos.Client, error) {
	node, err := aptos.NewClient(e.cfg.Aptos.NodeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", e.cfg.Aptos.NodeURL, err)
	}
	e.log.Debug().Str("network", node.Network()).Msg("connected to node")
	return node, nil
}

// spin runs fn behind a spinner unless output is JSON
func (e *env) spin(suffix string, fn func() error) error {
	if e.json {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}

// PrintError reports err the way every swapctl command does
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "\n%s %v\n\n", color.RedString("Error:"), err)
}
