// Package worker runs jobs serialized per key and bounded globally. The
// bot uses one key per conversation thread: events for the same thread
// are handled strictly in order, threads run in parallel up to the
// concurrency limit.
package worker

import (
	"context"
	"sync"
)

// Pool dispatches jobs to per-key goroutines. Dispatch and Close must be
// called from a single goroutine (the polling loop).
type Pool[J any] struct {
	ctx    context.Context
	handle func(context.Context, J)
	sem    chan struct{}
	buffer int

	mu     sync.Mutex
	queues map[string]chan J
	wg     sync.WaitGroup
	closed bool
}

type Options[J any] struct {
	// Ctx stops all workers when cancelled; in-flight jobs finish.
	Ctx context.Context
	// MaxConcurrency bounds jobs running at once across all keys.
	MaxConcurrency int
	// Buffer is the per-key queue depth; Dispatch blocks when full.
	Buffer int
	Handle func(context.Context, J)
}

func NewPool[J any](opts Options[J]) *Pool[J] {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 1
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	return &Pool[J]{
		ctx:    ctx,
		handle: opts.Handle,
		sem:    make(chan struct{}, opts.MaxConcurrency),
		buffer: opts.Buffer,
		queues: make(map[string]chan J),
	}
}

// Dispatch queues a job on key's serialized worker, starting the worker
// on first use. Blocks while the key's queue is full; returns the
// context error once the pool is cancelled or closed.
func (p *Pool[J]) Dispatch(key string, job J) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return context.Canceled
	}
	queue, ok := p.queues[key]
	if !ok {
		queue = make(chan J, p.buffer)
		p.queues[key] = queue
		p.wg.Add(1)
		go p.run(queue)
	}
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case queue <- job:
		return nil
	}
}

func (p *Pool[J]) run(queue <-chan J) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-queue:
			if !ok {
				return
			}
			select {
			case p.sem <- struct{}{}:
			case <-p.ctx.Done():
				return
			}
			func() {
				defer func() { <-p.sem }()
				p.handle(p.ctx, job)
			}()
		}
	}
}

// Close stops accepting jobs and waits for queued work to drain.
func (p *Pool[J]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	for _, queue := range p.queues {
		close(queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
