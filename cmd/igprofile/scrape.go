package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"igprofile/pkg/config"
	errs "igprofile/pkg/errors"
	"igprofile/pkg/instagram"
	"igprofile/pkg/logger"
	"igprofile/pkg/models"
	"igprofile/pkg/scraper"
	"igprofile/pkg/storage"
	"igprofile/pkg/ui"
)

var (
	// Scrape command flags
	outputPath         string
	outputFormat       string
	expandStatSuffixes bool
	downloadMedia      bool
	headful            bool
	skipPostDetails    bool
)

// newScraper builds the scraper for one run; tests swap in a fake browser
var newScraper = func(cfg *config.Config) *scraper.Scraper {
	return scraper.New(cfg, logger.GetLogger())
}

// scrapeCmd is the explicit form of the root command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [handle]",
	Short: "Extract a profile and write it to the output document",
	Long: `Extract a public Instagram profile and write it to the output document.

The profile page is loaded first. If it cannot be loaded or never shows an
image, the run fails and no document is written. Each post detail page is
then visited in order; a post that fails keeps zero likes and comments.`,
	Example: `  # Scrape the default profile into public/instaurl.json
  igprofile

  # Scrape a handle into a custom file
  igprofile scrape natgeo -o natgeo.json

  # Write YAML and expand 1.2M style header counts
  igprofile natgeo --format yaml --expand-stat-suffixes

  # Also save the profile picture and post thumbnails
  igprofile natgeo --download-media`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	addScrapeFlags(scrapeCmd)
}

func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default public/instaurl.json)")
	cmd.Flags().StringVar(&outputFormat, "format", "", "output format (json, yaml)")
	cmd.Flags().BoolVar(&expandStatSuffixes, "expand-stat-suffixes", false, "expand K/M/B suffixes in header statistics")
	cmd.Flags().BoolVar(&downloadMedia, "download-media", false, "download the profile picture and post thumbnails")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	cmd.Flags().BoolVar(&skipPostDetails, "skip-post-details", false, "do not visit post pages for like and comment counts")
}

// resolveUsername applies the default handle and rejects invalid ones
// before any browser is launched
func resolveUsername(args []string) (string, error) {
	if len(args) == 0 {
		return instagram.DefaultUsername, nil
	}
	username := instagram.SanitizeUsername(args[0])
	if username == "" {
		return instagram.DefaultUsername, nil
	}
	if !instagram.IsValidUsername(username) {
		return "", fmt.Errorf("invalid Instagram handle %q", args[0])
	}
	return username, nil
}

// flagOverrides collects only the flags set on the command line, so that
// unset booleans do not mask env or file values
func flagOverrides(flags *pflag.FlagSet) map[string]interface{} {
	overrides := make(map[string]interface{})
	if logLevel != "" {
		overrides["log-level"] = logLevel
	}
	if outputPath != "" {
		overrides["output"] = outputPath
	}
	if outputFormat != "" {
		overrides["format"] = outputFormat
	}
	if flags.Changed("expand-stat-suffixes") {
		overrides["expand-stat-suffixes"] = expandStatSuffixes
	}
	if flags.Changed("download-media") {
		overrides["download-media"] = downloadMedia
	}
	if flags.Changed("headful") {
		overrides["headful"] = headful
	}
	if flags.Changed("skip-post-details") {
		overrides["skip-post-details"] = skipPostDetails
	}
	return overrides
}

func runScrape(cmd *cobra.Command, args []string) error {
	username, err := resolveUsername(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile, flagOverrides(cmd.Flags()))
	if err != nil {
		return errs.New(errs.ErrorTypeConfig, "failed to load configuration", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.WithField("username", username)
	log.WithField("version", version).Info("igprofile starting")

	notifier := ui.NewNotifier(notifications)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintInfo("Target Profile", username)
	ui.PrintHighlight("[LOADING PROFILE]")

	s := newScraper(cfg)
	profile, err := s.Run(ctx, username)
	if err != nil {
		log.WithError(err).Error("Scrape failed")
		notifier.SendError("Scrape failed", username)
		return err
	}

	if err := storage.WriteProfile(cfg.Output.Path, profile, cfg.Output.Format); err != nil {
		log.WithError(err).Error("Failed to write output")
		notifier.SendError("Failed to write output", cfg.Output.Path)
		return err
	}
	log.WithField("path", cfg.Output.Path).Info("Profile document written")

	ui.PrintProfileSummary(profile)
	ui.PrintSuccess("Data saved to " + cfg.Output.Path)

	if cfg.Media.Enabled {
		saveMedia(ctx, s, profile)
	}

	notifier.SendSuccess("Scrape complete", fmt.Sprintf("%s: %d posts", username, len(profile.Posts)))
	return nil
}

// saveMedia runs the optional media download; its failures never fail the run
func saveMedia(ctx context.Context, s *scraper.Scraper, profile *models.Profile) {
	ui.PrintHighlight("[DOWNLOADING MEDIA]")

	summary, err := s.DownloadMedia(ctx, profile)
	if err != nil {
		logger.WithField("username", profile.Username).WithError(err).
			WithField("severity", errs.Classify(errs.StageMedia, err).String()).
			Warn("Media download failed")
		ui.PrintWarning("Media download failed", err.Error())
		return
	}

	ui.PrintInfo("Media", fmt.Sprintf("%d downloaded, %d skipped, %d failed",
		summary.Downloaded, summary.Skipped, summary.Failed))
}
