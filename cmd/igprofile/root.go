package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"igprofile/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	quiet         bool
	notifications bool
)

// rootCmd scrapes a profile when called with a handle and no subcommand
var rootCmd = &cobra.Command{
	Use:   "igprofile [handle]",
	Short: "Extract a public Instagram profile and its recent posts",
	Long: `igprofile loads a public Instagram profile in a headless browser and writes
a single document with the profile metadata and up to 12 recent posts,
each enriched with its like and comment counts.

The handle defaults to "instagram". A leading @ or a pasted profile URL is
accepted.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintBanner()
		}
	},
	RunE: runScrape,
}

// Execute runs the root command and exits 1 on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.igprofile.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notify", false, "send a desktop notification when the run ends")

	addScrapeFlags(rootCmd)

	rootCmd.SetVersionTemplate(`igprofile {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
