package optimizer

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/roamer/internal/domain"
)

const (
	DefaultMaxPlans  = 4
	DefaultRepeatCap = 2

	// ctxCheckEvery is how many candidate sets a worker visits between
	// context checks inside a root branch.
	ctxCheckEvery = 4096
)

// Params are the tunables of one search run.
type Params struct {
	MaxPlans       int
	RepeatCap      int
	TopK           int
	HassleUnit     domain.Money
	SearchSpace    int
	Workers        int
	UnknownPromoAs domain.PromoRecurrence
}

func DefaultParams() Params {
	return Params{
		MaxPlans:       DefaultMaxPlans,
		RepeatCap:      DefaultRepeatCap,
		TopK:           DefaultTopK,
		HassleUnit:     DefaultHassleUnit,
		SearchSpace:    DefaultSearchSpace,
		UnknownPromoAs: domain.PromoUnlimited,
	}
}

func (p Params) Validate() error {
	if p.MaxPlans < 1 {
		return fmt.Errorf("max plans must be at least 1, got %d", p.MaxPlans)
	}
	if p.RepeatCap < 1 {
		return fmt.Errorf("repeat cap must be at least 1, got %d", p.RepeatCap)
	}
	if p.TopK < 1 {
		return fmt.Errorf("top k must be at least 1, got %d", p.TopK)
	}
	if p.HassleUnit < 0 {
		return fmt.Errorf("hassle unit must not be negative")
	}
	if p.SearchSpace < 0 {
		return fmt.Errorf("search space must not be negative")
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

func (p Params) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Input is everything a run reads. It must not be mutated while a search
// is in progress.
type Input struct {
	Catalog   []*domain.Plan
	Itinerary domain.Itinerary
	Promos    domain.PromoTable
	Overrides *domain.OverrideSet
}

type Stats struct {
	CatalogSize   int
	Excluded      int
	SpaceSize     int
	Workers       int
	Roots         int
	RootsSearched int
	Generated     int64
	RejectedEarly int64
	Resolved      int64
	Feasible      int64
	Pruned        int64
	Elapsed       time.Duration
}

// Result is the ranked output of a search run.
type Result struct {
	Solutions []Solution
	Warnings  []string
	Stats     Stats
	Truncated bool
}

// NoFeasible reports the empty-result condition. It is an outcome, not an
// error.
func (r *Result) NoFeasible() bool {
	return len(r.Solutions) == 0
}

// Engine runs combination searches. It performs no I/O beyond logging.
type Engine struct {
	params Params
	log    logrus.FieldLogger
}

func NewEngine(params Params, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{params: params, log: log}
}

func (e *Engine) Params() Params { return e.params }

// Search enumerates candidate sets of 1..MaxPlans plans drawn with repetition
// from the search space, keeps the feasible ones and returns the best TopK.
// When ctx ends before every root branch is searched, the solutions found so
// far are returned with Truncated set.
func (e *Engine) Search(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	if err := e.params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search parameters: %w", err)
	}
	if err := in.Itinerary.Validate(); err != nil {
		return nil, fmt.Errorf("invalid itinerary: %w", err)
	}

	eff := ApplyOverrides(in.Catalog, in.Overrides)
	for _, c := range eff.Conflicts {
		e.log.WithField("conflict", c).Warn("override conflict")
	}
	space := BuildSpace(eff.Plans, in.Itinerary, e.params.SearchSpace)
	ev := NewEvaluator(in.Promos, in.Overrides, e.params.HassleUnit, e.params.UnknownPromoAs)

	res := &Result{Warnings: append([]string(nil), eff.Conflicts...)}
	res.Stats.CatalogSize = len(in.Catalog)
	res.Stats.Excluded = len(eff.Excluded)
	res.Stats.SpaceSize = len(space)
	res.Stats.Roots = len(space)

	e.log.WithFields(logrus.Fields{
		"catalog":  len(in.Catalog),
		"excluded": len(eff.Excluded),
		"space":    len(space),
		"segments": len(in.Itinerary),
	}).Debug("search space built")

	if len(space) > 0 {
		s := newSearch(space, in.Itinerary, ev, e.params)
		best, searched, err := e.fanOut(ctx, s, res)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		res.Solutions = best.solutions()
		res.Stats.RootsSearched = searched
		if searched < len(space) {
			res.Truncated = true
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"search stopped early after %d of %d root branches; results may be incomplete", searched, len(space)))
		}
	}

	markNewUserReuse(res.Solutions)
	res.Stats.Elapsed = time.Since(start)

	e.log.WithFields(logrus.Fields{
		"generated": res.Stats.Generated,
		"resolved":  res.Stats.Resolved,
		"feasible":  res.Stats.Feasible,
		"pruned":    res.Stats.Pruned,
		"solutions": len(res.Solutions),
		"truncated": res.Truncated,
		"elapsed":   res.Stats.Elapsed.String(),
	}).Info("search complete")
	return res, nil
}

// fanOut distributes root branches over workers. Each worker keeps its own
// top-K; the merge below is the only writer of the final ranking.
func (e *Engine) fanOut(ctx context.Context, s *search, res *Result) (*topK, int, error) {
	n := min(e.params.workers(), len(s.space))
	res.Stats.Workers = n

	roots := make(chan int)
	var searched atomic.Int64
	workers := make([]*worker, n)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(roots)
		for i := range s.space {
			select {
			case roots <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})
	for w := range n {
		wk := s.newWorker(gctx)
		workers[w] = wk
		g.Go(func() error {
			for i := range roots {
				if gctx.Err() != nil {
					return nil
				}
				if wk.root(i) {
					searched.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	best := newTopK(e.params.TopK)
	for _, wk := range workers {
		best.merge(wk.top)
		res.Stats.Generated += wk.stats.Generated
		res.Stats.RejectedEarly += wk.stats.RejectedEarly
		res.Stats.Resolved += wk.stats.Resolved
		res.Stats.Feasible += wk.stats.Feasible
		res.Stats.Pruned += wk.stats.Pruned
	}
	return best, int(searched.Load()), nil
}

// markNewUserReuse warns on every solution after the first that reuses a
// new-user-only plan. Eligibility cannot be verified, so this never rejects.
func markNewUserReuse(sols []Solution) {
	firstSeen := make(map[string]int)
	for i := range sols {
		seenHere := make(map[string]bool)
		for _, p := range sols[i].Plans {
			if !p.Flags.NewUserOnly || seenHere[p.ID] {
				continue
			}
			seenHere[p.ID] = true
			if first, ok := firstSeen[p.ID]; ok {
				sols[i].Warnings = append(sols[i].Warnings, fmt.Sprintf(
					"new-user-only plan %s is also used by option #%d; you can only buy it once", p.ID, first+1))
				continue
			}
			firstSeen[p.ID] = i
		}
	}
}
