package jobs

import "sync"

// queue is a double ended ring buffer. Pop takes the most recently pushed
// element, PushFront puts an element where it will be popped last.
type queue[T any] struct {
	buf  []T
	head int
	n    int
}

func (q *queue[T]) Len() int { return q.n }

func (q *queue[T]) Push(t T) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = t
	q.n++
}

func (q *queue[T]) PushFront(t T) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.head = (q.head - 1 + len(q.buf)) % len(q.buf)
	q.buf[q.head] = t
	q.n++
}

func (q *queue[T]) Pop() T {
	var zero T
	q.n--
	i := (q.head + q.n) % len(q.buf)
	t := q.buf[i]
	q.buf[i] = zero
	return t
}

func (q *queue[T]) grow() {
	buf := make([]T, max(16, 2*len(q.buf)))
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}

// sharedQueue holds the pending jobs and the shutdown flag under one mutex.
type sharedQueue struct {
	mu       sync.Mutex
	jobs     queue[*job]
	shutdown bool
}
