// Package cmd provides the command-line interface for betabern.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "betabern",
	Short: "Betabern runs Bernoulli trial sequences and tracks a " +
		"Beta posterior over the coin bias.",
	Long: `Betabern flips a coin with a hidden bias and updates a ` +
		`Beta-distributed belief over that bias after every flip, ` +
		`demonstrating conjugate Bayesian updating and convergence. ` +
		`Runs can be recorded to SQLite and watched live in a browser.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Flags not set on the command line fall back to BETABERN_*
		// environment variables, optionally loaded from a .env file.
		_ = godotenv.Load()

		applyEnvDefaults(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
