package app

import (
	"testing"

	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/optimizer"
	"github.com/stretchr/testify/assert"
)

func TestNewOptimizeRequest_SetsDefaults(t *testing.T) {
	it := domain.SingleRegionItinerary(6, 5120)
	req := NewOptimizeRequest(it)

	assert.Equal(t, it, req.Itinerary)
	assert.Equal(t, optimizer.DefaultParams(), req.Params)
	assert.False(t, req.HassleSet)
	assert.False(t, req.UnknownPromoSet)
	assert.Zero(t, req.Timeout)
	assert.Empty(t, req.CatalogPath, "empty paths read from the store")
}

func TestOptimizeResponse_NoFeasible(t *testing.T) {
	assert.True(t, (&OptimizeResponse{}).NoFeasible())
	assert.False(t, (&OptimizeResponse{Solutions: make([]optimizer.Solution, 1)}).NoFeasible())
}
