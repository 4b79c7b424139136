package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/telephone/internal/cli"
	"github.com/example/telephone/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "telephone",
		Short:   "Telephone - audio imitation chain experiments",
		Version: version.String(),
		Long: `Telephone runs audio "telephone game" experiments: participants listen
to a recording, imitate it, and pass their imitation down a chain for
the next participant to imitate in turn.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.GameCmd())
	rootCmd.AddCommand(cli.ChainCmd())
	rootCmd.AddCommand(cli.PlayCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
