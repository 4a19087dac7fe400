package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
	"github.com/alexanderramin/roamer/internal/optimizer"
	"github.com/alexanderramin/roamer/internal/repository"
)

type optimizeService struct {
	plans     repository.PlanRepo
	promos    repository.PromoRepo
	overrides repository.OverrideRepo
	settings  repository.SettingsRepo
	log       logrus.FieldLogger
	observer  UseCaseObserver
}

func NewOptimizeService(
	plans repository.PlanRepo,
	promos repository.PromoRepo,
	overrides repository.OverrideRepo,
	settings repository.SettingsRepo,
	log logrus.FieldLogger,
	observers ...UseCaseObserver,
) app.OptimizeUseCase {
	return &optimizeService{
		plans:     plans,
		promos:    promos,
		overrides: overrides,
		settings:  settings,
		log:       log,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Optimize loads and validates every input before the search starts, so a
// malformed file never yields a partial result.
func (s *optimizeService) Optimize(ctx context.Context, req app.OptimizeRequest) (resp *app.OptimizeResponse, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "optimize", fields, &err)()

	it, err := s.itinerary(req)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx, req.CatalogPath)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	promos, err := s.promoTable(ctx, req.PromosPath)
	if err != nil {
		return nil, err
	}
	ov, err := s.overrideInputs(ctx, req.OverridesPath)
	if err != nil {
		return nil, err
	}

	params := req.Params
	if !req.HassleSet && ov.HassleUnit != nil {
		params.HassleUnit = *ov.HassleUnit
	}
	if !req.UnknownPromoSet && ov.UnknownAs != nil {
		params.UnknownPromoAs = *ov.UnknownAs
	}
	fields["segments"] = len(it)
	fields["catalog"] = len(catalog)
	fields["max_plans"] = params.MaxPlans

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	res, err := optimizer.NewEngine(params, s.log).Search(ctx, optimizer.Input{
		Catalog:   catalog,
		Itinerary: it,
		Promos:    promos,
		Overrides: domain.NewOverrideSet(ov.Rules...),
	})
	if err != nil {
		return nil, err
	}
	fields["solutions"] = len(res.Solutions)
	fields["truncated"] = res.Truncated

	return &app.OptimizeResponse{
		Itinerary: it,
		Params:    params,
		Solutions: res.Solutions,
		Warnings:  res.Warnings,
		Stats:     res.Stats,
		Truncated: res.Truncated,
	}, nil
}

func (s *optimizeService) itinerary(req app.OptimizeRequest) (domain.Itinerary, error) {
	switch {
	case len(req.Itinerary) > 0 && req.ItineraryPath != "":
		return nil, fmt.Errorf("pass segments or an itinerary file, not both")
	case len(req.Itinerary) > 0:
		if err := req.Itinerary.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", importer.ErrMalformedInput, err)
		}
		return req.Itinerary, nil
	case req.ItineraryPath != "":
		return importer.ReadItinerary(req.ItineraryPath)
	}
	return nil, ErrNoItinerary
}

func (s *optimizeService) catalog(ctx context.Context, path string) ([]*domain.Plan, error) {
	if path != "" {
		return importer.ReadCatalog(path)
	}
	return s.plans.List(ctx)
}

func (s *optimizeService) promoTable(ctx context.Context, path string) (domain.PromoTable, error) {
	if path != "" {
		return importer.ReadPromos(path)
	}
	return s.promos.Table(ctx)
}

// overrideInputs reads rules and run defaults from a file, or from the
// store when no file is given.
func (s *optimizeService) overrideInputs(ctx context.Context, path string) (*importer.Overrides, error) {
	if path != "" {
		return importer.ReadOverrides(path)
	}

	rules, err := s.overrides.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &importer.Overrides{Rules: rules}

	raw, err := s.setting(ctx, repository.SettingHassleUnit)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stored hassle unit %q: %w", raw, err)
		}
		out.HassleUnit = domain.MoneyPtr(domain.Money(cents))
	}

	raw, err = s.setting(ctx, repository.SettingUnknownAs)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		r, err := domain.ParsePromoRecurrence(raw)
		if err != nil {
			return nil, fmt.Errorf("stored unknown promo policy: %w", err)
		}
		out.UnknownAs = &r
	}
	return out, nil
}

// setting returns "" for a key that was never stored.
func (s *optimizeService) setting(ctx context.Context, key string) (string, error) {
	v, err := s.settings.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	return v, err
}
