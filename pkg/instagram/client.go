package instagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"igprofile/pkg/config"
	errs "igprofile/pkg/errors"
	"igprofile/pkg/logger"
	"igprofile/pkg/retry"
)

// maxMediaSize bounds a single image body
const maxMediaSize = 32 << 20

// Client fetches profile and post images from the CDN. It never talks to
// Instagram pages; those are loaded by the browser.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	retry      *retry.Config
	logger     logger.Logger
}

// NewClient creates a media client with the given request timeout
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers: map[string]string{
			"User-Agent":      config.DefaultUserAgent,
			"Accept":          "image/avif,image/webp,image/apng,image/*,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Referer":         BaseURL + "/",
		},
		logger: log,
	}
	c.retry = retry.DefaultConfig()
	c.retry.Logger = log
	c.retry.RetryIf = retryableDownload
	return c
}

// NewClientWithConfig creates a media client using the media, browser and
// retry sections of cfg
func NewClientWithConfig(cfg *config.Config, log logger.Logger) *Client {
	c := NewClient(cfg.Media.DownloadTimeout, log)
	if cfg.Browser.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.Browser.UserAgent)
	}
	c.retry = retry.FromConfig(cfg.Retry, c.logger)
	c.retry.RetryIf = retryableDownload
	return c
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetRetry replaces the retry policy
func (c *Client) SetRetry(cfg *retry.Config) {
	if cfg.RetryIf == nil {
		cfg.RetryIf = retryableDownload
	}
	c.retry = cfg
}

// retryableDownload retries transport failures, 429 and 5xx
func retryableDownload(err error) bool {
	var e *errs.Error
	if errors.As(err, &e) && e.Type == errs.ErrorTypeNetwork {
		return errs.IsRetryableStatusCode(e.Code)
	}
	return retry.DefaultRetryIf(err)
}

// DownloadMedia fetches the image at mediaURL, retrying transient failures
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	return retry.DoWithResult(ctx, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, mediaURL)
	}, c.retry)
}

func (c *Client) fetch(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeConfig, "invalid media URL", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errs.New(errs.ErrorTypeNetwork, "media request failed", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("media request completed", map[string]interface{}{
		"url":         mediaURL,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode != http.StatusOK {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("unexpected status for %s", mediaURL),
			Code:    resp.StatusCode,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize))
	if err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, "failed to read media body", err)
	}
	return data, nil
}
