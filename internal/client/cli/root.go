// Package cli implements the envault command line client: sealing and
// opening dotenv files locally and moving sealed snapshots through the
// server's presigned storage URLs.
package cli

import (
	"github.com/spf13/cobra"
)

var serverAddr string

var RootCmd = &cobra.Command{
	Use:   "envault",
	Short: "envault - encrypted environment variables for your projects",
	Long: `envault seals dotenv files value by value with a passphrase and moves
sealed snapshots to and from the envault server.

Run 'envault help <command>' for details on any command.`,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddr, "server", "s", "http://127.0.0.1:8080", "envault server base URL")

	RootCmd.AddCommand(sealCmd)
	RootCmd.AddCommand(openCmd)
	RootCmd.AddCommand(pushCmd)
	RootCmd.AddCommand(pullCmd)
}
