// Package utils holds small pieces of infrastructure shared by more than
// one boundary package — currently just the worker pool used to bound
// concurrency on fan-out work.
package utils

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const defaultTaskChanSize = 256

// WorkerFunction is one unit of work handed to a pool worker.
type WorkerFunction func(t *tomb.Tomb, task any) error

// WorkerPool runs a fixed number of goroutines pulling tasks off a
// shared channel until the governing tomb starts dying. Unlike a
// one-task-per-worker handoff, each worker loops for its entire
// lifetime, so n workers means n concurrent tasks in flight, not n
// tasks total.
type WorkerPool struct {
	n     int
	tasks chan any
}

func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{
		n:     size,
		tasks: make(chan any, defaultTaskChanSize),
	}
}

// AddTask enqueues a task for some idle worker to pick up. Blocks if
// the queue is full.
func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

// Setup starts the pool's workers under t and blocks until t starts
// dying. Call it from its own t.Go goroutine.
func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("workers", pool.n).Msg("starting worker pool")
	for i := 0; i < pool.n; i++ {
		t.Go(func() error {
			return pool.worker(t, work)
		})
	}
	<-t.Dying()
}

// worker loops on the shared task channel until the tomb dies, running
// work for every task it pulls. A single task's error is logged, not
// fatal to the worker — only a context cancellation ends the loop.
func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-pool.tasks:
			if err := work(t, task); err != nil {
				log.Error().Err(err).Msg("worker task failed")
			}
		}
	}
}
