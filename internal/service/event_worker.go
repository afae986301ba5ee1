package service

import (
	"context"
	"log"
	"sync"
	"time"

	"littlecanvas-analytics/internal/model"
	"littlecanvas-analytics/internal/repository"
)

// IngestWorker buffers accepted events and writes them to the repository in
// batches, off the request path.
type IngestWorker interface {
	Enqueue(event model.Event)
	Shutdown()
}

type ingestWorker struct {
	repo          repository.EventRepository
	events        chan model.Event
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewIngestWorker starts the background ingest loop. Enqueue blocks when
// the buffer is full, applying backpressure to the HTTP layer rather than
// dropping accepted events.
func NewIngestWorker(repo repository.EventRepository, bufferSize, batchSize int, interval time.Duration) *ingestWorker {
	worker := &ingestWorker{
		repo:          repo,
		events:        make(chan model.Event, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.run()
	return worker
}

func (w *ingestWorker) Enqueue(event model.Event) {
	w.events <- event
}

// Shutdown closes the intake channel and waits for the loop to drain
// whatever is buffered.
func (w *ingestWorker) Shutdown() {
	close(w.events)
	w.wg.Wait()
	log.Println("[INFO] ingest worker drained")
}

func (w *ingestWorker) run() {
	defer w.wg.Done()

	var batch []model.Event
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.events:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, event)
			if len(batch) >= w.batchSize {
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *ingestWorker) bulkInsert(events []model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, events); err != nil {
		log.Printf("[ERROR] bulk insert failed: %v", err)
		return
	}
	log.Printf("[INFO] %d events flushed to storage", len(events))
}
