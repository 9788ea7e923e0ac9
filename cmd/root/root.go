// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "treasury-docs",
		Short: "Convert classified transactions and COA reference data into treasury documents.",
		Long: `treasury-docs classifies parsed financial transactions against a
chart-of-accounts reference catalog and a declarative rule set, validates and
routes them for approval, and assembles Treasury Receipts or Payment Vouchers.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
	}
)

// Init wires persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringP("config-dir", "c", "", "Directory holding rule and policy files")
}
