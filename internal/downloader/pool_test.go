package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"igprofile/pkg/logger"
	"igprofile/pkg/models"
	"igprofile/pkg/ratelimit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockClient struct {
	delay   time.Duration
	failFor map[string]error
	calls   int32
}

func (m *mockClient) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := m.failFor[url]; ok {
		return nil, err
	}
	return []byte("image:" + url), nil
}

type mockStorage struct {
	mu      sync.Mutex
	saved   map[string]string
	saveErr error
}

func newMockStorage(existing ...string) *mockStorage {
	s := &mockStorage{saved: make(map[string]string)}
	for _, id := range existing {
		s.saved[id] = "existing"
	}
	return s
}

func (s *mockStorage) IsDownloaded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.saved[id]
	return ok
}

func (s *mockStorage) SaveMedia(r io.Reader, id string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[id] = string(data)
	return nil
}

func mediaItems(n int) []models.MediaItem {
	items := make([]models.MediaItem, n)
	for i := range items {
		items[i] = models.MediaItem{
			ID:       fmt.Sprintf("post-%d", i),
			URL:      fmt.Sprintf("https://cdn.example/%d.jpg", i),
			Username: "instagram",
		}
	}
	return items
}

func TestWorkerPoolProcessesAllItems(t *testing.T) {
	client := &mockClient{delay: 5 * time.Millisecond}
	storage := newMockStorage()

	pool := NewWorkerPool(context.Background(), 3, client, storage, ratelimit.NewTokenBucket(100, time.Minute), logger.NewNopLogger())
	pool.Start()

	items := mediaItems(10)
	go func() {
		defer pool.Stop()
		for _, item := range items {
			assert.NoError(t, pool.Submit(item))
		}
	}()

	var results []DownloadResult
	for r := range pool.Results() {
		results = append(results, r)
	}

	require.Len(t, results, 10)
	for _, r := range results {
		assert.True(t, r.Success)
		assert.NoError(t, r.Error)
		assert.Equal(t, len("image:"+r.Item.URL), r.Size)
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(&client.calls))
	assert.Equal(t, "image:https://cdn.example/4.jpg", storage.saved["post-4"])
}

func TestDownloadAllSummary(t *testing.T) {
	items := mediaItems(6)
	client := &mockClient{failFor: map[string]error{
		items[2].URL: errors.New("status 404"),
	}}
	storage := newMockStorage(items[0].ID, items[1].ID)

	summary := DownloadAll(context.Background(), items, 2, client, storage, nil, logger.NewNopLogger())

	assert.Equal(t, Summary{Downloaded: 3, Skipped: 2, Failed: 1}, summary)
	assert.Equal(t, int32(4), atomic.LoadInt32(&client.calls))
	assert.False(t, storage.IsDownloaded(items[2].ID))
}

func TestDownloadAllSaveFailure(t *testing.T) {
	storage := newMockStorage()
	storage.saveErr = errors.New("disk full")

	summary := DownloadAll(context.Background(), mediaItems(3), 2, &mockClient{}, storage, nil, logger.NewNopLogger())
	assert.Equal(t, 3, summary.Failed)
}

func TestDownloadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &mockClient{delay: time.Second}
	summary := DownloadAll(ctx, mediaItems(20), 4, client, newMockStorage(), nil, logger.NewNopLogger())

	assert.Zero(t, summary.Downloaded)
}

func TestSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, &mockClient{}, newMockStorage(), nil, logger.NewNopLogger())
	pool.Start()

	cancel()
	err := pool.Submit(models.MediaItem{ID: "post-0"})
	assert.ErrorIs(t, err, context.Canceled)

	go func() {
		for range pool.Results() {
		}
	}()
	pool.Stop()
}
