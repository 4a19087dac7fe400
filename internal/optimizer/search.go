package optimizer

import (
	"context"

	"github.com/alexanderramin/roamer/internal/domain"
)

// search holds the read-only state shared by every worker of one run.
type search struct {
	space     []*domain.Plan
	itinerary domain.Itinerary
	eval      *Evaluator
	params    Params

	// Early-rejection tables. masks are only used for itineraries of at
	// most 64 segments.
	useMask   bool
	fullMask  uint64
	masks     []uint64
	needMB    int64
	needDays  int
	costFloor []domain.Money
}

func newSearch(space []*domain.Plan, it domain.Itinerary, ev *Evaluator, params Params) *search {
	s := &search{
		space:     space,
		itinerary: it,
		eval:      ev,
		params:    params,
		useMask:   len(it) <= 64,
		masks:     make([]uint64, len(space)),
		needMB:    it.TotalDataMB(),
		needDays:  it.TotalDays(),
		costFloor: make([]domain.Money, len(space)),
	}
	if s.useMask {
		for si := range it {
			s.fullMask |= 1 << uint(si)
		}
	}
	for i, p := range space {
		s.costFloor[i] = p.EffectivePrice()
		if !s.useMask {
			continue
		}
		for si, seg := range it {
			if p.Scope.Covers(seg.Country) {
				s.masks[i] |= 1 << uint(si)
			}
		}
	}
	return s
}

// frame is the running aggregate of a candidate-set prefix.
type frame struct {
	mask      uint64
	dataMB    int64
	days      int
	unlimited int
	floor     domain.Money
}

// worker walks root branches depth-first. Everything it mutates is its own.
type worker struct {
	s      *search
	ctx    context.Context
	top    *topK
	stats  Stats
	set    []int
	plans  []*domain.Plan
	counts []int
	frames []frame
	ticks  int
	halted bool
}

func (s *search) newWorker(ctx context.Context) *worker {
	return &worker{
		s:      s,
		ctx:    ctx,
		top:    newTopK(s.params.TopK),
		set:    make([]int, 0, s.params.MaxPlans),
		plans:  make([]*domain.Plan, 0, s.params.MaxPlans),
		counts: make([]int, len(s.space)),
		frames: make([]frame, 1, s.params.MaxPlans+1),
	}
}

// root searches every candidate set whose first plan is space[i]. Reports
// false when the branch was abandoned because the context ended.
func (w *worker) root(i int) bool {
	w.visit(i)
	return !w.halted
}

// visit pushes space[i], scores the resulting set and extends it with plans
// at index >= i. Non-decreasing indices enumerate each multiset exactly once.
func (w *worker) visit(i int) {
	if w.halted {
		return
	}
	w.ticks++
	if w.ticks%ctxCheckEvery == 0 && w.ctx.Err() != nil {
		w.halted = true
		return
	}

	w.push(i)
	defer w.pop(i)
	w.stats.Generated++

	f := w.frames[len(w.frames)-1]
	lowerBound := f.floor + w.s.eval.Hassle(len(w.set))
	if w.top.rejects(lowerBound) {
		// Adding plans never lowers cost, so the whole subtree is out.
		w.stats.Pruned++
		return
	}

	w.score(f)

	if len(w.set) >= w.s.params.MaxPlans {
		return
	}
	for j := i; j < len(w.s.space); j++ {
		if w.counts[j] >= w.s.params.RepeatCap {
			continue
		}
		w.visit(j)
		if w.halted {
			return
		}
	}
}

func (w *worker) score(f frame) {
	if w.s.useMask && f.mask != w.s.fullMask {
		w.stats.RejectedEarly++
		return
	}
	if f.days < w.s.needDays || (f.unlimited == 0 && f.dataMB < w.s.needMB) {
		w.stats.RejectedEarly++
		return
	}

	w.stats.Resolved++
	res := Resolve(w.s.itinerary, w.plans)
	if !res.Feasible {
		return
	}
	w.stats.Feasible++

	ev := w.s.eval.Evaluate(w.plans)
	if w.top.rejects(ev.RankingCost) {
		return
	}
	w.top.offer(Solution{
		Plans:       append([]*domain.Plan(nil), w.plans...),
		DisplayCost: ev.DisplayCost,
		RankingCost: ev.RankingCost,
		HassleCost:  ev.HassleCost,
		Lines:       ev.Lines,
		Warnings:    ev.Warnings(),
		Ledger:      res.Ledger,
		Activations: ev.Activations,
		TopUps:      ev.TopUps,
		Providers:   ev.Providers,
		FreePlans:   ev.FreePlans,
	})
}

func (w *worker) push(i int) {
	p := w.s.space[i]
	prev := w.frames[len(w.frames)-1]
	next := frame{
		mask:      prev.mask | w.s.masks[i],
		dataMB:    prev.dataMB,
		days:      prev.days + p.ValidityDays,
		unlimited: prev.unlimited,
		floor:     prev.floor + w.s.costFloor[i],
	}
	if p.IsUnlimited() {
		next.unlimited++
	} else {
		next.dataMB += p.DataMB
	}
	w.frames = append(w.frames, next)
	w.set = append(w.set, i)
	w.plans = append(w.plans, p)
	w.counts[i]++
}

func (w *worker) pop(i int) {
	w.frames = w.frames[:len(w.frames)-1]
	w.set = w.set[:len(w.set)-1]
	w.plans = w.plans[:len(w.plans)-1]
	w.counts[i]--
}
