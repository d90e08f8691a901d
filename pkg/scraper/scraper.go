package scraper

import (
	"context"
	"fmt"
	"time"

	"igprofile/pkg/browser"
	"igprofile/pkg/config"
	errs "igprofile/pkg/errors"
	"igprofile/pkg/extract"
	"igprofile/pkg/instagram"
	"igprofile/pkg/logger"
	"igprofile/pkg/models"
	"igprofile/pkg/ui"
)

// LaunchFunc starts a browser session for one run
type LaunchFunc func(ctx context.Context) (browser.Browser, error)

// Scraper orchestrates one profile run: launch, profile page, post pages
type Scraper struct {
	config   *config.Config
	launch   LaunchFunc
	profiles *extract.ProfileExtractor
	posts    *extract.PostExtractor
	logger   logger.Logger

	// overridden in tests to skip the configured delays
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Scraper that launches a rod-backed browser
func New(cfg *config.Config, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	launch := func(ctx context.Context) (browser.Browser, error) {
		return browser.Launch(ctx, browser.OptionsFromConfig(cfg), log)
	}
	return NewWithLauncher(cfg, launch, log)
}

// NewWithLauncher creates a Scraper around a custom browser launcher
func NewWithLauncher(cfg *config.Config, launch LaunchFunc, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	opts := extractOptions(cfg)
	return &Scraper{
		config:   cfg,
		launch:   launch,
		profiles: extract.NewProfileExtractor(opts),
		posts:    extract.NewPostExtractor(opts),
		logger:   log.WithField("component", "scraper"),
	}
}

func extractOptions(cfg *config.Config) extract.Options {
	return extract.Options{
		MaxPosts:           cfg.Extraction.MaxPosts,
		ExpandStatSuffixes: cfg.Extraction.ExpandStatSuffixes,
		BaseURL:            cfg.Navigation.BaseURL,
		MaxLikes:           cfg.Extraction.MaxLikes,
		MaxComments:        cfg.Extraction.MaxComments,
	}
}

// Run scrapes username and returns the assembled profile document. The
// browser is released on every return path.
func (s *Scraper) Run(ctx context.Context, username string) (profile *models.Profile, err error) {
	log := s.logger.WithField("username", username)

	b, err := s.launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close browser")
		}
	}()

	nav := s.navigator(b)

	profile, err = s.scrapeProfile(ctx, nav, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load Instagram profile: %w", err)
	}
	log.InfoWithFields("Profile extracted", map[string]interface{}{
		"posts":     len(profile.Posts),
		"followers": profile.FollowersCount,
	})

	if s.config.Extraction.SkipPostDetails || len(profile.Posts) == 0 {
		return profile, nil
	}

	if err := s.enrichPosts(ctx, nav, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Scraper) navigator(b browser.Browser) *Navigator {
	nav := NewNavigator(b, s.config.Navigation, s.logger)
	if s.sleep != nil {
		nav.sleep = s.sleep
	}
	return nav
}

func (s *Scraper) scrapeProfile(ctx context.Context, nav *Navigator, username string) (*models.Profile, error) {
	pageURL := instagram.ProfileURL(s.config.Navigation.BaseURL, username)

	html, err := nav.Visit(ctx, pageURL, ProfileTarget(s.config.Navigation))
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Extract(html, pageURL)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeEvaluation, "failed to evaluate profile page", err)
	}
	return profile, nil
}

// enrichPosts fetches each post's detail page in order and merges its counts
// by position. A failed post keeps zero counts; only cancellation stops the loop.
func (s *Scraper) enrichPosts(ctx context.Context, nav *Navigator, profile *models.Profile) error {
	total := len(profile.Posts)
	progress := ui.NewPostProgress(profile.Username, total)
	defer progress.Finish()

	for i := range profile.Posts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("post processing interrupted: %w", err)
		}

		post := &profile.Posts[i]
		progress.Start(i, post.URL)
		logger.LogPostProgress(i, total, post.URL)

		counts, err := s.FetchPostCounts(ctx, nav, post.URL)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("post processing interrupted: %w", ctx.Err())
			}
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"post":     post.ID,
				"url":      post.URL,
				"severity": errs.Classify(errs.StagePost, err).String(),
			}).Warn("Error processing post")
			progress.Fail(post.URL, err)
			continue
		}

		post.Likes = counts.Likes
		post.Comments = counts.Comments
		progress.Complete()
	}
	return nil
}

// FetchPostCounts loads one post detail page and reads its like and comment
// counts
func (s *Scraper) FetchPostCounts(ctx context.Context, nav *Navigator, postURL string) (models.Counts, error) {
	html, err := nav.Visit(ctx, postURL, PostTarget(s.config.Navigation))
	if err != nil {
		return models.Counts{}, err
	}

	counts, err := s.posts.Extract(html)
	if err != nil {
		return models.Counts{}, errs.New(errs.ErrorTypeEvaluation, "failed to evaluate post page", err)
	}
	return counts, nil
}
