package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦═╗┬┌─┐┌─┐┬  ┌─┐
  ╠╦╝│├─┘├─┘│  ├┤
  ╩╚═┴┴  ┴  ┴─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Tooling for the Ripple reactivity engine",
		Long: `Ripple is a fine-grained reactivity engine for Go.

Track reads, trigger on writes, and re-run only the effects whose
dependencies actually changed. This CLI ships the supporting tooling:

  • Live inspector with WebSocket event streaming
  • Prometheus metrics for engine activity
  • OpenTelemetry spans for flushes and effect runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Ripple ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}
