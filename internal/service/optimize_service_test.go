package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
)

func germanyTrip() domain.Itinerary {
	return domain.Itinerary{{Country: "DE", Days: 5, DataMB: 2000}}
}

func TestOptimizeService_FromStore(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.catalog.Import(ctx, writeFile(t, "catalog.json", germanyCatalog))
	require.NoError(t, err)

	resp, err := s.optimize.Optimize(ctx, app.NewOptimizeRequest(germanyTrip()))
	require.NoError(t, err)
	require.False(t, resp.NoFeasible())

	top := resp.Solutions[0]
	assert.Equal(t, []string{"de-3gb"}, top.PlanIDs())
	assert.Equal(t, "$4.00", top.DisplayCost.FormatUSD())
	assert.Equal(t, 3, resp.Stats.CatalogSize)
	assert.False(t, resp.Truncated)

	event := s.observer.last()
	assert.Equal(t, "optimize", event.Name)
	assert.True(t, event.Success)
	assert.Equal(t, len(resp.Solutions), event.Fields["solutions"])
}

func TestOptimizeService_FromFiles(t *testing.T) {
	s := newTestServices(t)
	req := app.OptimizeRequest{
		ItineraryPath: writeFile(t, "trip.yaml", "segments:\n  - {country: fr, days: 4.5, data_gb: 1}\n"),
		CatalogPath:   writeFile(t, "catalog.json", germanyCatalog),
		Params:        app.NewOptimizeRequest(nil).Params,
	}

	resp, err := s.optimize.Optimize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.Itinerary{{Country: "FR", Days: 5, DataMB: 1024}}, resp.Itinerary)
	require.False(t, resp.NoFeasible())
	assert.Equal(t, []string{"eu-5gb"}, resp.Solutions[0].PlanIDs())
}

func TestOptimizeService_StoredOverridesApply(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.catalog.Import(ctx, writeFile(t, "catalog.json", germanyCatalog))
	require.NoError(t, err)
	_, err = s.override.Import(ctx, writeFile(t, "overrides.yaml", overridesYAML))
	require.NoError(t, err)

	resp, err := s.optimize.Optimize(ctx, app.NewOptimizeRequest(germanyTrip()))
	require.NoError(t, err)
	require.False(t, resp.NoFeasible())
	assert.Equal(t, []string{"eu-5gb"}, resp.Solutions[0].PlanIDs(), "de-3gb is excluded")
	assert.Equal(t, domain.Money(75), resp.Params.HassleUnit)
	assert.Equal(t, domain.PromoOneTime, resp.Params.UnknownPromoAs)
	assert.Contains(t, resp.Warnings, `override name_contains "trial" matches nothing in the catalog; ignored`)
}

func TestOptimizeService_ExplicitParamsBeatOverrideDefaults(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.catalog.Import(ctx, writeFile(t, "catalog.json", germanyCatalog))
	require.NoError(t, err)

	req := app.NewOptimizeRequest(germanyTrip())
	req.OverridesPath = writeFile(t, "overrides.yaml", overridesYAML)
	req.Params.HassleUnit = 10
	req.HassleSet = true

	resp, err := s.optimize.Optimize(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(10), resp.Params.HassleUnit)
	assert.Equal(t, domain.PromoOneTime, resp.Params.UnknownPromoAs, "unset parameters still take file defaults")
}

func TestOptimizeService_PromoTableFromStore(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	catalog := `{"plans": [
	  {"id": "x-1", "provider_id": "x", "coverage_type": "local", "countries": ["DE"], "data_mb": 3000, "validity_days": 5, "price": 5, "promo_price": 3},
	  {"id": "x-2", "provider_id": "x", "coverage_type": "local", "countries": ["DE"], "data_mb": 3000, "validity_days": 5, "price": 5, "promo_price": 3}
	]}`
	_, err := s.catalog.Import(ctx, writeFile(t, "catalog.json", catalog))
	require.NoError(t, err)
	require.NoError(t, s.promo.Set(ctx, "x", "one-time"))

	resp, err := s.optimize.Optimize(ctx, app.NewOptimizeRequest(domain.Itinerary{{Country: "DE", Days: 10, DataMB: 5000}}))
	require.NoError(t, err)
	require.False(t, resp.NoFeasible())
	assert.Equal(t, "$8.00", resp.Solutions[0].DisplayCost.FormatUSD())
	assert.Equal(t, "$8.50", resp.Solutions[0].RankingCost.FormatUSD())
}

func TestOptimizeService_NoFeasibleIsNotAnError(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.catalog.Import(ctx, writeFile(t, "catalog.json", germanyCatalog))
	require.NoError(t, err)

	resp, err := s.optimize.Optimize(ctx, app.NewOptimizeRequest(domain.Itinerary{{Country: "JP", Days: 3, DataMB: 100}}))
	require.NoError(t, err)
	assert.True(t, resp.NoFeasible())
}

func TestOptimizeService_InputErrors(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.optimize.Optimize(ctx, app.NewOptimizeRequest(germanyTrip()))
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = s.catalog.Import(ctx, writeFile(t, "catalog.json", germanyCatalog))
	require.NoError(t, err)

	_, err = s.optimize.Optimize(ctx, app.NewOptimizeRequest(nil))
	assert.ErrorIs(t, err, ErrNoItinerary)

	both := app.NewOptimizeRequest(germanyTrip())
	both.ItineraryPath = writeFile(t, "trip.json", `{"days": 3, "data_gb": 1}`)
	_, err = s.optimize.Optimize(ctx, both)
	assert.Error(t, err)

	_, err = s.optimize.Optimize(ctx, app.NewOptimizeRequest(domain.Itinerary{{Country: "DE", Days: 0, DataMB: 100}}))
	assert.ErrorIs(t, err, importer.ErrMalformedInput)

	badPromos := app.NewOptimizeRequest(germanyTrip())
	badPromos.PromosPath = writeFile(t, "promos.json", `{"x": "often"}`)
	_, err = s.optimize.Optimize(ctx, badPromos)
	assert.ErrorIs(t, err, importer.ErrMalformedInput)

	badParams := app.NewOptimizeRequest(germanyTrip())
	badParams.Params.MaxPlans = 0
	_, err = s.optimize.Optimize(ctx, badParams)
	assert.Error(t, err)

	assert.False(t, s.observer.last().Success)
}
