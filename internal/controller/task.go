package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Task is the future of one asynchronous operation.
type Task struct {
	id   string
	name string
	done chan struct{}
	err  error
}

func newTask(name string) *Task {
	return &Task{id: uuid.NewString(), name: name, done: make(chan struct{})}
}

// doneTask returns a task that has already finished with err.
func doneTask(name string, err error) *Task {
	t := newTask(name)
	t.finish(err)
	return t
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

func (t *Task) ID() string   { return t.id }
func (t *Task) Name() string { return t.name }

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err is nil until the task has finished.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx ends. It returns the task's
// error, or ctx's error if ctx ended first.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TaskGroup runs tasks under one context. Close cancels that context and
// waits for every task; tasks started after Close fail with ErrClosed.
type TaskGroup struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    logrus.FieldLogger

	mu      sync.Mutex
	closed  bool
	running int
	idle    chan struct{}
}

func NewTaskGroup(log logrus.FieldLogger) *TaskGroup {
	if log == nil {
		log = logger.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	return &TaskGroup{ctx: ctx, cancel: cancel, log: log, idle: idle}
}

// Go starts fn in its own goroutine.
func (g *TaskGroup) Go(name string, fn func(ctx context.Context) error) *Task {
	t, _ := g.start(name, fn)
	return t
}

// start is Go that also reports whether fn was scheduled at all.
func (g *TaskGroup) start(name string, fn func(ctx context.Context) error) (*Task, bool) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return doneTask(name, ErrClosed), false
	}
	if g.running == 0 {
		g.idle = make(chan struct{})
	}
	g.running++
	g.mu.Unlock()

	t := newTask(name)
	log := g.log.WithFields(logrus.Fields{"task": name, "task_id": t.id})
	log.Debug("task started")

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task %s panicked: %v", name, r)
				log.WithError(err).Error("task panicked")
			}
			t.finish(err)
			log.WithError(err).Debug("task finished")
			g.release()
		}()
		err = fn(g.ctx)
	}()
	return t, true
}

func (g *TaskGroup) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running--
	if g.running == 0 {
		close(g.idle)
	}
}

// Wait blocks until no task is running or ctx ends.
func (g *TaskGroup) Wait(ctx context.Context) error {
	g.mu.Lock()
	idle := g.idle
	g.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels all running tasks and waits for them to return.
func (g *TaskGroup) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.cancel()
	_ = g.Wait(context.Background())
}

// Context is cancelled when the group closes.
func (g *TaskGroup) Context() context.Context {
	return g.ctx
}
