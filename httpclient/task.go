package httpclient

import (
	"context"
	"sync"
)

// Callback receives the outcome of an asynchronous request.
type Callback func(resp *Response, err error)

// Task is an asynchronous request. It completes exactly once: with the response,
// or with ErrCanceled when canceled first.
type Task struct {
	cancel   context.CancelFunc
	executor Executor
	callback Callback

	once sync.Once
	done chan struct{}
	resp *Response
	err  error

	mux      sync.Mutex
	canceled bool
	subs     []*Task
}

func newTask(cancel context.CancelFunc, executor Executor, callback Callback) *Task {
	return &Task{
		cancel:   cancel,
		executor: executor,
		callback: callback,
		done:     make(chan struct{}),
	}
}

// complete records the outcome and dispatches the callback; later calls are no-ops.
func (t *Task) complete(resp *Response, err error) {
	t.once.Do(func() {
		t.resp, t.err = resp, err

		t.executor.Execute(func() {
			defer close(t.done)

			if t.callback != nil {
				t.callback(resp, err)
			}
		})
	})
}

// Cancel aborts the request and every sub task. The callback runs with ErrCanceled
// unless the task already completed.
func (t *Task) Cancel() {
	t.mux.Lock()
	t.canceled = true
	subs := t.subs
	t.subs = nil
	t.mux.Unlock()

	t.cancel()
	t.complete(nil, ErrCanceled)

	for _, sub := range subs {
		sub.Cancel()
	}
}

// Sub ties sub to t: canceling t cancels sub. A sub added to a canceled task is
// canceled at once.
func (t *Task) Sub(sub *Task) {
	t.mux.Lock()
	if !t.canceled {
		t.subs = append(t.subs, sub)
		t.mux.Unlock()

		return
	}
	t.mux.Unlock()

	sub.Cancel()
}

// Done is closed once the callback returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completed and its callback returned.
func (t *Task) Wait() (*Response, error) {
	<-t.done
	return t.resp, t.err
}
