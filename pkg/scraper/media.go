package scraper

import (
	"context"
	"path/filepath"

	"igprofile/internal/downloader"
	"igprofile/pkg/instagram"
	"igprofile/pkg/models"
	"igprofile/pkg/ratelimit"
	"igprofile/pkg/storage"
)

// DownloadMedia saves the profile picture and post thumbnails under
// media.directory/<username>. Failures are logged per item and counted in
// the summary; only an unusable output directory is returned as an error.
func (s *Scraper) DownloadMedia(ctx context.Context, profile *models.Profile) (downloader.Summary, error) {
	items := profile.MediaItems()
	if len(items) == 0 {
		return downloader.Summary{}, nil
	}

	dir := filepath.Join(s.config.Media.Directory, profile.Username)
	store, err := storage.NewManager(dir)
	if err != nil {
		return downloader.Summary{}, err
	}

	client := instagram.NewClientWithConfig(s.config, s.logger)
	limiter := ratelimit.PerMinute(s.config.RateLimit.RequestsPerMinute)

	s.logger.InfoWithFields("Downloading media", map[string]interface{}{
		"items":     len(items),
		"directory": store.OutputDir(),
	})
	return downloader.DownloadAll(ctx, items, s.config.Media.ConcurrentDownloads, client, store, limiter, s.logger), nil
}
