// Package scraper runs one profile scrape end to end.
//
// A run launches an isolated browser, loads the profile page through the
// Navigator, extracts the profile record from the rendered DOM and then visits
// each post detail page in order to read its like and comment counts. Post
// pages are opened one at a time and closed after use.
//
// Failure handling follows the stage that failed:
//
//   - profile navigation, readiness and evaluation errors abort the run
//   - any error on a post page is logged and the post keeps zero counts
//   - failing to dismiss the login dialog is logged and ignored
//
// Usage:
//
//	s := scraper.New(cfg, logger.GetLogger())
//	profile, err := s.Run(ctx, "instagram")
//	if err != nil {
//	    return err
//	}
//	err = storage.WriteProfile(cfg.Output.Path, profile, cfg.Output.Format)
package scraper
