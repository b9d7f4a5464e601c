// Command portalctl runs the portal's session pipeline from a terminal: it
// signs in against the ticketing API, shows the caller's profile and
// optionally signs out again.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL   string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Terminal client for the ticketing profile portal",
	Long: `portalctl talks to the ticketing API the same way the portal does:
a bearer token is kept in a process-wide store and attached to every call.

The API base URL defaults to API_BASE_URL (or http://localhost:8081/api).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Ticketing API base URL (or set API_BASE_URL env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (or set LOG_LEVEL env)")

	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
