package cli

import (
	"errors"
	"regexp"
	"strings"
)

// swapPattern matches "<amount> <token> to <token>"
var swapPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s+(\S+)\s+to\s+(\S+)$`)

var errSwapSyntax = errors.New("expected '<amount> <token> to <token>' (e.g. '1 APT to USDC')")

type swapArgs struct {
	Amount string
	From   string
	To     string
}

// parseSwapArgs accepts the positional form used by quote and swap. Tokens
// may be symbols or full Move type tags.
func parseSwapArgs(args []string) (swapArgs, error) {
	command := strings.TrimSpace(strings.Join(args, " "))
	if len(command) >= 5 && strings.EqualFold(command[:5], "swap ") {
		command = strings.TrimSpace(command[5:])
	}

	m := swapPattern.FindStringSubmatch(command)
	if m == nil {
		return swapArgs{}, errSwapSyntax
	}
	return swapArgs{Amount: m[1], From: m[2], To: m[3]}, nil
}
