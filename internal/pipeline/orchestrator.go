package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embed"
	"github.com/docsift/docsift/internal/rank"
	"github.com/docsift/docsift/internal/section"
)

// Orchestrator manages the analysis job queue and worker pool.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	ranker *rank.Ranker
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline around an embedding provider.
func NewOrchestrator(cfg config.Config, provider embed.Provider, log *slog.Logger) *Orchestrator {
	ranker := rank.NewRanker(provider, log, rank.Config{
		BatchSize:          cfg.EmbedBatchSize,
		MaxConcurrentEmbed: cfg.MaxConcurrentEmbed,
	})
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		ranker: ranker,
		log:    log,
		cfg:    cfg,
	}
}

// ExtractorConfig returns the section extraction thresholds from config.
func (o *Orchestrator) ExtractorConfig() section.Config {
	return section.Config{
		MaxTitleLines:  o.cfg.MaxTitleLines,
		MaxTitleWords:  o.cfg.MaxTitleWords,
		TitleSizeDelta: o.cfg.TitleSizeDelta,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.ranker, o.log, o.ExtractorConfig(), o.cfg.MaxConcurrentParse, o.cfg.TopK)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
