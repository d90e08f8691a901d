package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"igprofile/pkg/logger"
	"igprofile/pkg/models"
	"igprofile/pkg/ratelimit"
)

// DownloadResult is the outcome of one media item
type DownloadResult struct {
	Item     models.MediaItem
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int
}

// MediaDownloader fetches image bytes
type MediaDownloader interface {
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}

// MediaStorage persists image bytes by id
type MediaStorage interface {
	IsDownloaded(id string) bool
	SaveMedia(r io.Reader, id string) error
}

// WorkerPool downloads media items concurrently
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan models.MediaItem
	resultQueue chan DownloadResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      MediaDownloader
	storage     MediaStorage
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx stops the workers
// after their current item.
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	client MediaDownloader,
	storage MediaStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan models.MediaItem, numWorkers*2),
		resultQueue: make(chan DownloadResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		storage:     storage,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue, waits for the workers and closes Results
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit queues an item; it fails once the pool's context is done
func (wp *WorkerPool) Submit(item models.MediaItem) error {
	if err := wp.ctx.Err(); err != nil {
		return fmt.Errorf("worker pool is shutting down: %w", err)
	}

	select {
	case wp.jobQueue <- item:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel results are delivered on
func (wp *WorkerPool) Results() <-chan DownloadResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for item := range wp.jobQueue {
		if wp.ctx.Err() != nil {
			continue
		}

		result := wp.process(item, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
		}
	}
}

func (wp *WorkerPool) process(item models.MediaItem, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Item: item}

	if wp.storage.IsDownloaded(item.ID) {
		result.Success = true
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	if wp.rateLimiter != nil {
		if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
			result.Error = fmt.Errorf("rate limit wait: %w", err)
			result.Duration = time.Since(start)
			return result
		}
	}

	data, err := wp.client.DownloadMedia(wp.ctx, item.URL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	result.Size = len(data)

	if err := wp.storage.SaveMedia(bytes.NewReader(data), item.ID); err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("Worker completed media item", map[string]interface{}{
		"worker_id": workerID,
		"media_id":  item.ID,
		"size":      result.Size,
		"duration":  result.Duration,
	})
	return result
}

// QueueSize returns the number of items waiting for a worker
func (wp *WorkerPool) QueueSize() int {
	return len(wp.jobQueue)
}

// Summary counts the outcomes of a DownloadAll call
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// DownloadAll runs items through a fresh pool and reports every result to
// the logger. Individual failures never abort the batch.
func DownloadAll(
	ctx context.Context,
	items []models.MediaItem,
	numWorkers int,
	client MediaDownloader,
	storage MediaStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) Summary {
	pool := NewWorkerPool(ctx, numWorkers, client, storage, rateLimiter, log)
	pool.Start()

	go func() {
		defer pool.Stop()
		for _, item := range items {
			if err := pool.Submit(item); err != nil {
				return
			}
		}
	}()

	var summary Summary
	for result := range pool.Results() {
		logger.LogDownload(result.Item.Username, result.Item.ID, result.Skipped, result.Error)
		switch {
		case result.Error != nil:
			summary.Failed++
		case result.Skipped:
			summary.Skipped++
		default:
			summary.Downloaded++
		}
	}
	return summary
}
