package storage

import "container/list"

// idempotencyLRU bounds the set of remembered batch_ids to maxEntries,
// evicting the least-recently-inserted entry on overflow. Which tie the
// teacher/spec leave unspecified (spec.md §9 Open Questions): the exact
// eviction order on ties between entries inserted in the same instant is
// not defined here either — only "oldest insertion evicted first" is
// guaranteed. No ready-made bounded-LRU library appears anywhere in the
// example pack, so this is a short stdlib container/list implementation
// rather than a hand-rolled map+slice.
type idempotencyLRU struct {
	maxEntries int
	order      *list.List
	index      map[string]*list.Element
	results    map[string]AppendBatchResult
}

func newIdempotencyLRU(maxEntries int) *idempotencyLRU {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &idempotencyLRU{
		maxEntries: maxEntries,
		order:      list.New(),
		index:      make(map[string]*list.Element),
		results:    make(map[string]AppendBatchResult),
	}
}

// lookup returns the remembered result for batchID, if any.
func (l *idempotencyLRU) lookup(batchID string) (AppendBatchResult, bool) {
	res, ok := l.results[batchID]
	return res, ok
}

// remember records batchID -> result, evicting the oldest entry if the set
// would otherwise exceed maxEntries.
func (l *idempotencyLRU) remember(batchID string, result AppendBatchResult) {
	if _, exists := l.index[batchID]; exists {
		return
	}
	elem := l.order.PushBack(batchID)
	l.index[batchID] = elem
	l.results[batchID] = result

	for l.order.Len() > l.maxEntries {
		oldest := l.order.Front()
		if oldest == nil {
			break
		}
		id := oldest.Value.(string)
		l.order.Remove(oldest)
		delete(l.index, id)
		delete(l.results, id)
	}
}

// batchIDs returns the remembered batch ids, oldest first, for state
// persistence.
func (l *idempotencyLRU) batchIDs() []string {
	ids := make([]string, 0, l.order.Len())
	for e := l.order.Front(); e != nil; e = e.Next() {
		ids = append(ids, e.Value.(string))
	}
	return ids
}

func (l *idempotencyLRU) len() int {
	return l.order.Len()
}
