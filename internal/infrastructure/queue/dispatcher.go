package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/api/metrics"
	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans auth decisions out to a fixed set of workers, sharded by
// subject so decisions for the same account land in order. It implements
// ports.DecisionSink; the gate middleware never waits on the audit write.
type Dispatcher struct {
	workers []chan domain.AuthDecision
	audit   ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, audit ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthDecision, numWorkers),
		audit:   audit,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthDecision, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a decision to its shard's worker. When the buffer is full
// the decision is dropped rather than stalling the request; the drop is
// logged so a saturated audit trail is visible.
func (d *Dispatcher) Enqueue(decision domain.AuthDecision) {
	idx := d.shardIndex(decision.SubjectID)
	select {
	case d.workers[idx] <- decision:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("scheme", decision.Scheme).
			Str("subject_id", decision.SubjectID).
			Int("worker_id", idx).
			Msg("audit queue full, decision dropped")
	}
}

// shardIndex maps a subject deterministically to a worker index. Anonymous
// rejections carry an empty subject and all hash to the same shard, which
// is acceptable because they need no ordering at all.
func (d *Dispatcher) shardIndex(subjectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthDecision) {
	gauge := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case decision, ok := <-ch:
			if !ok {
				return
			}
			gauge.Set(float64(len(ch)))
			if err := d.audit.Insert(ctx, &decision); err != nil {
				d.log.Error().Err(err).
					Str("scheme", decision.Scheme).
					Str("subject_id", decision.SubjectID).
					Int("worker_id", id).
					Msg("audit insert failed")
			}
		}
	}
}
