package worker

import (
	"context"
	"sort"
	"sync"
)

// JobFunc is a unit of work producing one result
type JobFunc[R any] func(ctx context.Context) R

type indexedJob[R any] struct {
	index int
	run   JobFunc[R]
}

type indexedResult[R any] struct {
	index  int
	result R
}

// Pool runs jobs on a fixed number of goroutines and returns results in
// submission order
type Pool[R any] struct {
	workers    int
	jobQueue   chan indexedJob[R]
	results    chan indexedResult[R]
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	submitted  int
	mu         sync.Mutex
	collected  []indexedResult[R]
	drained    chan struct{}
}

// NewPool creates a pool bound to ctx; canceling ctx stops the workers
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers:    workers,
		jobQueue:   make(chan indexedJob[R], workers*2),
		results:    make(chan indexedResult[R], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		drained:    make(chan struct{}),
	}
}

// Start starts the workers and the result collector. Results are drained
// while jobs are still being submitted, so Submit never waits on Wait.
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	go func() {
		defer close(p.drained)
		for result := range p.results {
			p.collected = append(p.collected, result)
		}
	}()
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := indexedResult[R]{index: job.index, result: job.run(p.ctx)}
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false once the pool is shut down.
// Submit and Wait must be called from the same goroutine, after Start.
func (p *Pool[R]) Submit(job JobFunc[R]) bool {
	if p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- indexedJob[R]{index: index, run: job}:
		return true
	}
}

// Wait closes the queue, waits for every job and returns the results in
// submission order. Jobs dropped by cancellation have no result.
func (p *Pool[R]) Wait() []R {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.drained

	collected := p.collected
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	results := make([]R, len(collected))
	for i, r := range collected {
		results[i] = r.result
	}
	return results
}

// Shutdown stops the pool immediately
func (p *Pool[R]) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
