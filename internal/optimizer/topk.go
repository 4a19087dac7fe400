package optimizer

import (
	"sort"

	"github.com/alexanderramin/roamer/internal/domain"
)

// DefaultTopK is how many solutions a search retains by default.
const DefaultTopK = 10

// topK keeps the best k solutions in sorted order. Not safe for concurrent
// use; each worker owns one and results are merged by a single writer.
type topK struct {
	k     int
	items []Solution
}

func newTopK(k int) *topK {
	return &topK{k: k, items: make([]Solution, 0, k)}
}

func (t *topK) full() bool { return len(t.items) >= t.k }

func (t *topK) len() int { return len(t.items) }

// worst returns the last retained solution, or nil when empty.
func (t *topK) worst() *Solution {
	if len(t.items) == 0 {
		return nil
	}
	return &t.items[len(t.items)-1]
}

// rejects reports whether a solution with this ranking cost cannot enter
// even with the most favourable tie-breaks.
func (t *topK) rejects(ranking domain.Money) bool {
	w := t.worst()
	return t.full() && w != nil && ranking > w.RankingCost
}

// offer inserts s when it beats the current worst or a slot is free.
// Reports whether s was retained.
func (t *topK) offer(s Solution) bool {
	if t.k <= 0 {
		return false
	}
	if t.full() && !Less(&s, t.worst()) {
		return false
	}
	pos := sort.Search(len(t.items), func(i int) bool { return Less(&s, &t.items[i]) })
	if t.full() {
		t.items = t.items[:len(t.items)-1]
	}
	t.items = append(t.items, Solution{})
	copy(t.items[pos+1:], t.items[pos:])
	t.items[pos] = s
	return true
}

func (t *topK) merge(o *topK) {
	for _, s := range o.items {
		t.offer(s)
	}
}

func (t *topK) solutions() []Solution {
	out := make([]Solution, len(t.items))
	copy(out, t.items)
	return out
}
