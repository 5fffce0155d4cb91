// ABOUTME: Version command for newsdesk CLI
// ABOUTME: Shows build stamps plus the search provider and endpoints this binary talks to

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/config"
)

// Version information set via ldflags at build time
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and endpoint information",
	Long:  "Print the version, commit hash and build date of newsdesk, with the search provider and API endpoints in use.",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), cfg)
	},
}

// printVersion writes build stamps and the effective endpoints. A nil c
// reports the defaults.
func printVersion(w io.Writer, c *config.Config) {
	if c == nil {
		c = &config.Config{}
	}

	fmt.Fprintf(w, "newsdesk %s\n", Version)
	fmt.Fprintf(w, "  commit:    %s\n", Commit)
	fmt.Fprintf(w, "  built:     %s\n", BuildDate)
	fmt.Fprintf(w, "  provider:  %s\n", c.GetProvider())

	switch c.GetProvider() {
	case "rss":
		fmt.Fprintf(w, "  search:    %s\n", c.GetRSSSearchURL())
	default:
		fmt.Fprintf(w, "  search:    %s\n", c.GetNewsAPIURL())
	}
	fmt.Fprintf(w, "  explorer:  %s\n", c.GetExplorerURL())

	state := "signed out"
	if c.Token != "" {
		state = "signed in"
	}
	fmt.Fprintf(w, "  session:   %s\n", state)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
