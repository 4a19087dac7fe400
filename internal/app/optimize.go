package app

import (
	"time"

	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/optimizer"
)

// OptimizeRequest describes one optimisation run. Empty file paths mean
// the input is read from the local store.
type OptimizeRequest struct {
	Itinerary     domain.Itinerary
	ItineraryPath string
	CatalogPath   string
	PromosPath    string
	OverridesPath string

	Params optimizer.Params
	// HassleSet and UnknownPromoSet mark parameters chosen explicitly by the
	// caller. Unset ones may be replaced by defaults stored with overrides.
	HassleSet       bool
	UnknownPromoSet bool

	// Timeout bounds the search. Zero means no limit.
	Timeout time.Duration
}

func NewOptimizeRequest(it domain.Itinerary) OptimizeRequest {
	return OptimizeRequest{
		Itinerary: it,
		Params:    optimizer.DefaultParams(),
	}
}

type OptimizeResponse struct {
	Itinerary domain.Itinerary
	Params    optimizer.Params
	Solutions []optimizer.Solution
	Warnings  []string
	Stats     optimizer.Stats
	Truncated bool
}

// NoFeasible reports that no plan combination covers the itinerary.
func (r *OptimizeResponse) NoFeasible() bool {
	return len(r.Solutions) == 0
}
