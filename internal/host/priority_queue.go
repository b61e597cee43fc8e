package host

// Item wraps one exploration state with the priority PathSelector assigned
// it; PriorityQueue orders Items so container/heap always pops the state
// the selector most wants explored next.
type Item struct {
	value    *Interpreter
	priority int
	index    int
}

// PriorityQueue implements container/heap.Interface over a min-heap of
// Items: the lowest-priority value is popped first.
type PriorityQueue []*Item

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].priority < pq[j].priority
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *PriorityQueue) Push(x any) {
	item := x.(*Item)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}
