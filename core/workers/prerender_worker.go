// ABOUTME: Prerender worker renders static documents of stored pages in the background
// ABOUTME: Provides a managed worker pool so stores return before rendering completes

package workers

import (
	"context"
	"sync"
	"time"

	"pagesmith-api/core/interfaces"
	"pagesmith-api/pkg/featureflags"
)

// StaticRenderer produces (and caches) the static document of a page
type StaticRenderer interface {
	Static(ctx context.Context, pageID string) (string, error)
}

// PrerenderJob represents a job for background rendering
type PrerenderJob struct {
	PageID   string
	Context  context.Context
	ResultCh chan<- PrerenderResult
}

// PrerenderResult reports the outcome of a job
type PrerenderResult struct {
	PageID string
	Bytes  int
	Err    error
}

// PrerenderWorker manages background prerendering
type PrerenderWorker struct {
	renderer   StaticRenderer
	logger     interfaces.Logger
	flags      featureflags.Manager
	jobQueue   chan *PrerenderJob
	maxWorkers int
	timeout    time.Duration
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
}

// worker represents an individual worker goroutine
type worker struct {
	id       int
	jobQueue <-chan *PrerenderJob
	pool     *PrerenderWorker
}

// WorkerConfig holds configuration for the prerender worker
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int

	// JobTimeout bounds a single render
	JobTimeout time.Duration

	// Flags is installed in each job context so the renderer sees the
	// same feature flags as request handlers
	Flags featureflags.Manager
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers: 4,
		QueueSize:  100,
		JobTimeout: 30 * time.Second,
	}
}

// NewPrerenderWorker creates a new prerender worker
func NewPrerenderWorker(renderer StaticRenderer, logger interfaces.Logger, config WorkerConfig) *PrerenderWorker {
	ctx, cancel := context.WithCancel(context.Background())

	def := DefaultWorkerConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = def.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}

	return &PrerenderWorker{
		renderer:   renderer,
		logger:     logger,
		flags:      config.Flags,
		jobQueue:   make(chan *PrerenderJob, config.QueueSize),
		maxWorkers: config.MaxWorkers,
		timeout:    config.JobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the worker pool
func (pw *PrerenderWorker) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return nil
	}

	for i := 0; i < pw.maxWorkers; i++ {
		w := &worker{id: i, jobQueue: pw.jobQueue, pool: pw}
		pw.wg.Add(1)
		go w.run()
	}

	pw.running = true
	return nil
}

// Stop stops the worker pool. Queued jobs that have not started are dropped.
func (pw *PrerenderWorker) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	pw.cancel()
	pw.wg.Wait()

	pw.running = false
	return nil
}

// SubmitJob submits a job to the worker pool, waiting up to five seconds
// for queue space
func (pw *PrerenderWorker) SubmitJob(job *PrerenderJob) error {
	if !pw.isRunning() {
		return ErrWorkerNotRunning
	}

	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()

	select {
	case pw.jobQueue <- job:
		return nil
	case <-timer.C:
		return ErrQueueFull
	}
}

// Enqueue schedules a prerender of pageID without blocking. A full queue
// returns ErrQueueFull at once; the page is then rendered on first request.
func (pw *PrerenderWorker) Enqueue(ctx context.Context, pageID string) error {
	if !pw.isRunning() {
		return ErrWorkerNotRunning
	}

	select {
	case pw.jobQueue <- &PrerenderJob{PageID: pageID, Context: ctx}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (pw *PrerenderWorker) isRunning() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.running
}

// run is the main loop for each worker
func (w *worker) run() {
	defer w.pool.wg.Done()

	for {
		select {
		case job := <-w.jobQueue:
			w.processJob(job)
		case <-w.pool.ctx.Done():
			return
		}
	}
}

// processJob renders a single page
func (w *worker) processJob(job *PrerenderJob) {
	parent := job.Context
	if parent == nil {
		parent = w.pool.ctx
	}
	ctx, cancel := context.WithTimeout(parent, w.pool.timeout)
	defer cancel()

	if w.pool.flags != nil {
		ctx = featureflags.WithManager(ctx, w.pool.flags)
	}

	doc, err := w.pool.renderer.Static(ctx, job.PageID)
	if err != nil {
		w.pool.logger.Warn("Prerender failed", map[string]interface{}{
			"page_id": job.PageID,
			"worker":  w.id,
			"error":   err.Error(),
		})
	} else {
		w.pool.logger.Debug("Prerendered page", map[string]interface{}{
			"page_id": job.PageID,
			"worker":  w.id,
			"bytes":   len(doc),
		})
	}

	if job.ResultCh != nil {
		select {
		case job.ResultCh <- PrerenderResult{PageID: job.PageID, Bytes: len(doc), Err: err}:
		case <-ctx.Done():
		}
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
