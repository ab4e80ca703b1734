package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
	"github.com/99minutos/address-verification/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	verifyTimeout  = time.Minute
)

// LocationVerifier is the use case the workers call.
type LocationVerifier interface {
	Verify(ctx context.Context, in ports.VerifyLocationInput) (*ports.VerificationResult, error)
}

// Dispatcher routes background verifications to a fixed set of workers using
// consistent hashing on the location ID, so one location is never verified by
// two workers of the same process at once.
type Dispatcher struct {
	workers []chan ports.VerifyLocationInput
	service LocationVerifier
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service LocationVerifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.VerifyLocationInput, numWorkers),
		service: service,
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.VerifyLocationInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Cancelling ctx does not interrupt
// them; call Shutdown to drain and stop.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.runWorker(base, i, ch)
		}()
	}
}

// Shutdown stops accepting work, lets every worker finish what is already
// queued and waits for them until ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatcher shutdown: %w", ctx.Err())
	}
}

// Enqueue hands a verification to the worker responsible for its location.
// It never blocks and reports false when that worker's buffer is full or the
// dispatcher is shutting down.
func (d *Dispatcher) Enqueue(in ports.VerifyLocationInput) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	idx := d.shardIndex(in.LocationID)
	select {
	case d.workers[idx] <- in:
		metrics.QueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		return false
	}
}

// shardIndex maps a location ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(locationID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(locationID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.VerifyLocationInput) {
	label := strconv.Itoa(id)
	for in := range ch {
		metrics.QueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		d.verify(ctx, id, in)
	}
}

func (d *Dispatcher) verify(ctx context.Context, id int, in ports.VerifyLocationInput) {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	if _, err := d.service.Verify(ctx, in); err != nil {
		evt := d.log.Error()
		if errors.Is(err, domain.ErrLocationBusy) {
			evt = d.log.Info()
		}
		evt.Err(err).
			Str("location_id", in.LocationID).
			Int("worker_id", id).
			Msg("background verification failed")
	}
}
