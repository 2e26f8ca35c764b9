package workers

import (
	"context"
	"log"
	"sync"
)

// PersistJob is one durable write. Jobs run one at a time in enqueue order.
type PersistJob struct {
	Name string
	Run  func(ctx context.Context) error
}

type PersistWorker struct {
	jobs chan PersistJob
	wg   sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func NewPersistWorker(queueSize int) *PersistWorker {
	return &PersistWorker{
		jobs: make(chan PersistJob, max(queueSize, 1)),
	}
}

func (w *PersistWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		log.Println("[PERSIST] Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.mu.Lock()
				w.stopped = true
				w.mu.Unlock()
				w.drain()
				log.Println("[PERSIST] Worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks on the queue. A full queue drops the job; the next
// resync pass rewrites whatever was lost. Once the worker has shut down the
// job runs on the caller's goroutine instead.
func (w *PersistWorker) Enqueue(job PersistJob) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.processJob(context.Background(), job)
		return true
	}

	select {
	case w.jobs <- job:
		return true
	default:
		log.Printf("[PERSIST] Queue full! Dropping job %s", job.Name)
		return false
	}
}

// Wait blocks until the worker goroutine has exited.
func (w *PersistWorker) Wait() {
	w.wg.Wait()
}

// drain flushes what is already queued with a fresh context so a shutdown
// does not lose accepted writes.
func (w *PersistWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.processJob(context.Background(), job)
		default:
			return
		}
	}
}

func (w *PersistWorker) processJob(ctx context.Context, job PersistJob) {
	if err := job.Run(ctx); err != nil {
		log.Printf("[PERSIST] Job %s failed: %v", job.Name, err)
	}
}
