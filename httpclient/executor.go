package httpclient

// Executor runs completion callbacks.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Execute(fn func()) {
	f(fn)
}

// GoExecutor runs every callback on a new goroutine. It is the default.
var GoExecutor Executor = ExecutorFunc(func(fn func()) { go fn() })

// InlineExecutor runs callbacks on the goroutine completing the request.
var InlineExecutor Executor = ExecutorFunc(func(fn func()) { fn() })

// QueueExecutor runs callbacks one at a time, in completion order, on a single
// goroutine. Close stops it after the queued callbacks ran.
type QueueExecutor struct {
	queue chan func()
	done  chan struct{}
}

// NewQueueExecutor starts a queue holding up to size pending callbacks.
func NewQueueExecutor(size int) *QueueExecutor {
	q := &QueueExecutor{queue: make(chan func(), size), done: make(chan struct{})}

	go func() {
		defer close(q.done)

		for fn := range q.queue {
			fn()
		}
	}()

	return q
}

func (q *QueueExecutor) Execute(fn func()) {
	q.queue <- fn
}

// Close drains the queue and waits for the last callback.
func (q *QueueExecutor) Close() {
	close(q.queue)
	<-q.done
}
