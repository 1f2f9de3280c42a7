// Package batcher provides Batcher, a single-consumer dynamic request
// batcher that coalesces concurrent single-sample predict requests into
// one stacked forward pass over a model.Sequential.
//
// Submitters never block on the forward pass itself: Submit enqueues the
// request and returns a future immediately. A single background goroutine
// drains the queue, waiting up to Config.MaxWaitMs to collect more than
// one request before forwarding, then splits the batched result back out
// to each submitter's future.
package batcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HamoodiM/TitanInfer/internal/logging"
	"github.com/HamoodiM/TitanInfer/internal/metrics"
	"github.com/HamoodiM/TitanInfer/model"
	"github.com/HamoodiM/TitanInfer/pool"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Config controls how a Batcher groups requests.
type Config struct {
	// MaxBatchSize caps how many requests are stacked into one forward
	// pass. Values <= 0 are treated as 1.
	MaxBatchSize int
	// MaxWaitMs bounds how long the consumer waits, after the first
	// request in a batch arrives, to collect more before flushing.
	// Values <= 0 are treated as 1ms (effectively no coalescing wait).
	MaxWaitMs int
}

func (c Config) normalized() Config {
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = 1
	}
	if c.MaxWaitMs <= 0 {
		c.MaxWaitMs = 1
	}
	return c
}

type request struct {
	id          string
	input       *tensor.Tensor
	future      *pool.Future[*tensor.Tensor]
	submittedAt time.Time
}

// Batcher coalesces concurrent single-sample requests for a shared
// model.Sequential into stacked batches. Safe to share across goroutines
// for Submit; only the batcher's own consumer goroutine ever calls into
// the model.
type Batcher struct {
	model      *model.Sequential
	inputShape tensor.Shape
	config     Config

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*request
	stopped bool
	wg      sync.WaitGroup
}

// New starts a Batcher's consumer goroutine over m, which forwards
// inputs of inputShape. m is borrowed — the caller keeps it alive and
// must not forward through it from another goroutine concurrently with
// the batcher.
func New(m *model.Sequential, inputShape tensor.Shape, config Config) *Batcher {
	b := &Batcher{
		model:      m,
		inputShape: inputShape,
		config:     config.normalized(),
	}
	b.cond = sync.NewCond(&b.mu)
	b.wg.Add(1)
	go b.loop()
	return b
}

// Submit enqueues a single input sample and returns a future for its
// result. The caller does not need input's shape to already equal
// inputShape's leading dimension stripped off — it is validated against
// inputShape when a batch of two or more requests is assembled. A batch
// holding a single request is forwarded to the model without that check.
func (b *Batcher) Submit(input *tensor.Tensor) (*pool.Future[*tensor.Tensor], error) {
	fut := pool.NewFuture[*tensor.Tensor]()

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, fmt.Errorf("batcher: submit on a stopped batcher")
	}
	b.queue = append(b.queue, &request{
		id:          uuid.New().String(),
		input:       input,
		future:      fut,
		submittedAt: time.Now(),
	})
	b.mu.Unlock()
	b.cond.Signal()

	return fut, nil
}

// Close stops accepting new submissions, drains and processes whatever
// remains queued, and waits for the consumer goroutine to exit. No
// promise is abandoned: every request queued before Close returns is
// delivered a value or an error.
func (b *Batcher) Close() {
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()
	b.cond.Broadcast()
	b.wg.Wait()
}

func (b *Batcher) loop() {
	defer b.wg.Done()
	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.stopped {
			b.cond.Wait()
		}
		if len(b.queue) == 0 && b.stopped {
			b.mu.Unlock()
			return
		}
		batch := b.drainLocked()
		b.mu.Unlock()

		if len(batch) == 0 {
			continue
		}
		b.dispatch(batch)
	}
}

// drainLocked collects up to MaxBatchSize requests. Called with b.mu held
// and the queue known non-empty. It pulls whatever is already queued,
// then — if there is still room and the batcher hasn't been stopped —
// waits up to the remaining MaxWaitMs window for more requests to arrive
// before flushing whatever has been collected so far.
func (b *Batcher) drainLocked() []*request {
	deadline := time.Now().Add(time.Duration(b.config.MaxWaitMs) * time.Millisecond)
	batch := make([]*request, 0, b.config.MaxBatchSize)
	for len(batch) < b.config.MaxBatchSize {
		if len(b.queue) > 0 {
			batch = append(batch, b.queue[0])
			b.queue = b.queue[1:]
			continue
		}
		if b.stopped || !time.Now().Before(deadline) {
			break
		}
		b.waitUntilLocked(deadline)
	}
	return batch
}

// waitUntilLocked blocks on the condition variable until it is signalled
// (a new request arrived, or Close ran) or deadline passes, whichever is
// first. Must be called with b.mu held; returns with b.mu held again,
// the same contract as sync.Cond.Wait.
func (b *Batcher) waitUntilLocked(deadline time.Time) {
	timer := time.AfterFunc(time.Until(deadline), func() {
		b.mu.Lock()
		b.cond.Broadcast()
		b.mu.Unlock()
	})
	defer timer.Stop()
	b.cond.Wait()
}

// dispatch runs one batch's forward pass and delivers results (or a
// shared error) to every request's future. A panic surfacing from the
// forward pass is recovered and broadcast to the batch the same way the
// reference implementation broadcasts a caught exception to every
// pending promise.
func (b *Batcher) dispatch(batch []*request) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("batcher: panic during forward: %v", r)
			for _, req := range batch {
				req.future.Resolve(nil, err)
			}
		}
	}()

	maxWait := time.Duration(0)
	for _, req := range batch {
		if w := time.Since(req.submittedAt); w > maxWait {
			maxWait = w
		}
	}
	metrics.RecordBatch(len(batch), maxWait)
	logging.Debugf("batcher: dispatching batch of %d (max wait %s)", len(batch), maxWait)

	if len(batch) == 1 {
		out, err := b.model.Forward(batch[0].input)
		if err != nil {
			batch[0].future.Resolve(nil, err)
			return
		}
		batch[0].future.Resolve(out.Copy(), nil)
		return
	}

	stacked, err := stack(batch, b.inputShape)
	if err != nil {
		b.fail(batch, err)
		return
	}
	out, err := b.model.Forward(stacked)
	if err != nil {
		b.fail(batch, err)
		return
	}
	results, err := split(out, len(batch))
	if err != nil {
		b.fail(batch, err)
		return
	}
	for i, req := range batch {
		req.future.Resolve(results[i], nil)
	}
}

func (b *Batcher) fail(batch []*request, err error) {
	for _, req := range batch {
		req.future.Resolve(nil, err)
	}
}

// stack copies each request's input into a new [N, ...sampleShape]
// tensor by contiguous copy, as the reference batcher does with memcpy.
func stack(batch []*request, sampleShape tensor.Shape) (*tensor.Tensor, error) {
	n := len(batch)
	batchShape := make(tensor.Shape, 0, len(sampleShape)+1)
	batchShape = append(batchShape, n)
	batchShape = append(batchShape, sampleShape...)

	out, err := tensor.New(batchShape)
	if err != nil {
		return nil, fmt.Errorf("batcher: %w", err)
	}
	sampleSize := sampleShape.Size()
	for i, req := range batch {
		if !req.input.Shape().Equal(sampleShape) {
			return nil, fmt.Errorf("batcher: request %s has shape %v, expected %v", req.id, []int(req.input.Shape()), []int(sampleShape))
		}
		copy(out.Data()[i*sampleSize:(i+1)*sampleSize], req.input.Data())
	}
	return out, nil
}

// split divides a batched [N, ...] output along dimension 0 into N
// tensors of shape [...], each an independent copy.
func split(batched *tensor.Tensor, n int) ([]*tensor.Tensor, error) {
	shape := batched.Shape()
	if len(shape) == 0 || shape[0] != n {
		return nil, fmt.Errorf("batcher: batched output has shape %v, expected leading dimension %d", []int(shape), n)
	}
	sampleShape := shape[1:].Clone()
	sampleSize := sampleShape.Size()

	out := make([]*tensor.Tensor, n)
	for i := 0; i < n; i++ {
		t, err := tensor.New(sampleShape)
		if err != nil {
			return nil, fmt.Errorf("batcher: %w", err)
		}
		copy(t.Data(), batched.Data()[i*sampleSize:(i+1)*sampleSize])
		out[i] = t
	}
	return out, nil
}
