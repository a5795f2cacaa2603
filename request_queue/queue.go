package request_queue

const minQueueCapacity = 16

// Queue is a FIFO ring buffer. It is not safe for concurrent use;
// the Service guards it with its mutex.
type Queue[T any] struct {
	items []T
	head  int
	size  int
}

// NewQueue creates an empty queue
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{items: make([]T, minQueueCapacity)}
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	return q.size
}

// PushBack appends an item at the tail
func (q *Queue[T]) PushBack(item T) {
	if q.size == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.size)%len(q.items)] = item
	q.size++
}

// PopFront removes and returns the head item
func (q *Queue[T]) PopFront() (T, bool) {
	var empty T
	if q.size == 0 {
		return empty, false
	}
	item := q.items[q.head]
	q.items[q.head] = empty
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// PopBatch removes up to n items from the head, preserving order
func (q *Queue[T]) PopBatch(n int) []T {
	if n > q.size {
		n = q.size
	}
	batch := make([]T, 0, n)
	for i := 0; i < n; i++ {
		item, _ := q.PopFront()
		batch = append(batch, item)
	}
	return batch
}

// Drain removes and returns every queued item
func (q *Queue[T]) Drain() []T {
	return q.PopBatch(q.size)
}

func (q *Queue[T]) grow() {
	items := make([]T, len(q.items)*2)
	for i := 0; i < q.size; i++ {
		items[i] = q.items[(q.head+i)%len(q.items)]
	}
	q.items = items
	q.head = 0
}
