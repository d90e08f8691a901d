// Package retry re-runs failing operations with a backoff between attempts.
//
// It guards the HTTP media downloads only. Browser navigation is never
// retried: a profile that fails to load ends the run, and a post that fails
// to load keeps zero counts.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return client.Fetch(ctx, url)
//	}, retry.FromConfig(cfg.Retry, logger.GetLogger()))
//
// Typed errors from pkg/errors are retried only when their type is network.
// Context cancellation always stops the loop.
package retry
