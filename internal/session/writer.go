package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"livecaption/api-gateway/internal/store"
	"livecaption/api-gateway/models"
)

const appendTimeout = 10 * time.Second

// writeJob is one durable append. A job with a non-nil flushed channel is a
// flush marker: reaching it means every append enqueued before it has been
// processed.
type writeJob struct {
	seg        models.Segment
	cumulative string
	flushed    chan struct{}
}

// writeQueue serializes the durable appends for one session on its own
// goroutine. Appends are fire-and-forget from the caller's point of view:
// each is retried a bounded number of times and then dropped with an error
// log. Enqueue and Stop must be serialized by the caller, which holds for
// the one-reader-per-connection protocol loop.
type writeQueue struct {
	transcriptID uuid.UUID
	docs         store.DocumentStore
	log          *logrus.Entry
	jobs         chan writeJob
	done         chan struct{}
	pending      int64
	retries      int
	retryDelay   time.Duration
}

func newWriteQueue(transcriptID uuid.UUID, docs store.DocumentStore, log *logrus.Logger, size, retries int, retryDelay time.Duration) *writeQueue {
	q := &writeQueue{
		transcriptID: transcriptID,
		docs:         docs,
		log:          log.WithField("transcript_id", transcriptID.String()),
		jobs:         make(chan writeJob, size),
		done:         make(chan struct{}),
		retries:      retries,
		retryDelay:   retryDelay,
	}
	go q.run()
	return q
}

func (q *writeQueue) run() {
	defer close(q.done)
	for job := range q.jobs {
		if job.flushed != nil {
			close(job.flushed)
			continue
		}
		q.process(job)
		atomic.AddInt64(&q.pending, -1)
	}
}

func (q *writeQueue) process(job writeJob) {
	var err error
	for attempt := 0; attempt <= q.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(q.retryDelay)
		}
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		err = q.docs.AppendSegmentAndSetText(ctx, q.transcriptID, job.seg, job.cumulative)
		cancel()
		if err == nil {
			return
		}
	}
	q.log.WithError(err).WithField("segment_text", job.seg.Text).
		Error("Durable segment append dropped after retries")
}

// Enqueue queues one append. Blocks when the queue is full, which preserves
// receipt order under backpressure.
func (q *writeQueue) Enqueue(seg models.Segment, cumulative string) {
	atomic.AddInt64(&q.pending, 1)
	q.jobs <- writeJob{seg: seg, cumulative: cumulative}
}

// Pending reports the number of appends not yet processed.
func (q *writeQueue) Pending() int {
	return int(atomic.LoadInt64(&q.pending))
}

// Flush waits until every append enqueued before the call has been
// processed, or the context expires.
func (q *writeQueue) Flush(ctx context.Context) error {
	flushed := make(chan struct{})
	select {
	case q.jobs <- writeJob{flushed: flushed}:
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queue and waits for queued appends to drain, up to the
// given timeout.
func (q *writeQueue) Stop(timeout time.Duration) {
	close(q.jobs)
	select {
	case <-q.done:
	case <-time.After(timeout):
		q.log.Warn("Write queue stopped before draining all appends")
	}
}
