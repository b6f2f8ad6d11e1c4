/*
 * Hazel - An OpenFlow Switch Agent
 *
 * Copyright (C) 2016 Hazel SDN Project.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

// Package soc is the cooperative single-threaded runner. Message handlers
// and long-running iteration tasks all execute on the one goroutine driving
// Run; tasks yield between slices so no handler is starved.
package soc

import (
	"context"
	"time"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var logger = logging.MustGetLogger("soc")

const (
	// Time budget of one task slice before the task is asked to yield.
	sliceBudget = 10 * time.Millisecond

	DefaultPriority = 0
)

// Task is a resumable unit of work. Run executes one slice and reports
// whether the task has finished. Cancel runs the task to its terminal state
// with an empty remainder, so its owner can still free resources.
type Task interface {
	Run() (done bool)
	Cancel()
}

type taskEntry struct {
	task     Task
	priority int
}

type Runner struct {
	jobs       chan func()
	tasks      []taskEntry
	sliceStart time.Time
}

func NewRunner() *Runner {
	return &Runner{
		jobs: make(chan func(), 256),
	}
}

// Submit queues fn for execution on the runner goroutine. It is the only
// entry point for other goroutines.
func (r *Runner) Submit(fn func()) {
	if fn == nil {
		panic("nil job")
	}
	r.jobs <- fn
}

// Call runs fn on the runner goroutine and blocks until it returns. Used by
// observers, e.g. the status API, that need a consistent snapshot.
func (r *Runner) Call(fn func()) {
	done := make(chan struct{})
	r.Submit(func() {
		defer close(done)
		fn()
	})
	<-done
}

// RegisterTask adds a cooperative task. Must be called from code already
// running on the runner goroutine (i.e. from a handler or another task).
func (r *Runner) RegisterTask(task Task, priority int) error {
	if task == nil {
		panic("nil task")
	}
	r.tasks = append(r.tasks, taskEntry{task: task, priority: priority})
	return nil
}

// ShouldYield reports whether the current slice has used up its budget.
func (r *Runner) ShouldYield() bool {
	return time.Since(r.sliceStart) >= sliceBudget
}

func (r *Runner) CurrentTime() time.Time {
	return time.Now()
}

// Run drives the runner until ctx is cancelled. Pending jobs take precedence
// over task slices so controller messages keep their arrival-order handling.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if len(r.tasks) == 0 {
			select {
			case <-ctx.Done():
				r.drain()
				return errors.New("closed by the context done signal")
			case job := <-r.jobs:
				r.exec(job)
			}
			continue
		}

		select {
		case <-ctx.Done():
			r.drain()
			return errors.New("closed by the context done signal")
		case job := <-r.jobs:
			r.exec(job)
		default:
			r.runTaskSlice()
		}
	}
}

func (r *Runner) exec(job func()) {
	r.sliceStart = time.Now()
	job()
}

func (r *Runner) runTaskSlice() {
	idx := 0
	for i := 1; i < len(r.tasks); i++ {
		if r.tasks[i].priority > r.tasks[idx].priority {
			idx = i
		}
	}

	r.sliceStart = time.Now()
	if done := r.tasks[idx].task.Run(); done {
		r.tasks = append(r.tasks[:idx], r.tasks[idx+1:]...)
	}
}

// drain cancels every registered task so each reaches its terminal callback
// and releases the resources it owns.
func (r *Runner) drain() {
	if len(r.tasks) > 0 {
		logger.Debugf("cancelling %v pending tasks", len(r.tasks))
	}
	for _, v := range r.tasks {
		v.task.Cancel()
	}
	r.tasks = nil
}
