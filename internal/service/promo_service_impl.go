package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
	"github.com/alexanderramin/roamer/internal/repository"
)

type promoService struct {
	promos   repository.PromoRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPromoService(promos repository.PromoRepo, uow db.UnitOfWork, observers ...UseCaseObserver) app.PromoUseCase {
	return &promoService{
		promos:   promos,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Import merges a promo file into the stored table. Providers missing from
// the file keep their stored recurrence.
func (s *promoService) Import(ctx context.Context, path string) (n int, err error) {
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "import-promos", fields, &err)()

	file, err := importer.LoadPromos(path)
	if err != nil {
		return 0, fmt.Errorf("loading promo table: %w", err)
	}
	if err = importer.AsError(path, importer.ValidatePromos(file)); err != nil {
		return 0, err
	}
	table := importer.ConvertPromos(file)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePromoRepo(tx)
		for _, id := range slices.Sorted(maps.Keys(table)) {
			rec := &repository.PromoRecord{ProviderID: id, Recurrence: table[id], Name: file[id].Name}
			if err := repo.Upsert(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storing promo table: %w", err)
	}
	fields["providers"] = len(table)
	return len(table), nil
}

func (s *promoService) Set(ctx context.Context, providerID, recurrence string) error {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return fmt.Errorf("provider id is required")
	}
	r, err := domain.ParsePromoRecurrence(recurrence)
	if err != nil {
		return err
	}
	return s.promos.Upsert(ctx, &repository.PromoRecord{ProviderID: providerID, Recurrence: r})
}

func (s *promoService) List(ctx context.Context) ([]app.PromoEntry, error) {
	recs, err := s.promos.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.PromoEntry, len(recs))
	for i, r := range recs {
		out[i] = app.PromoEntry{
			ProviderID: r.ProviderID,
			Recurrence: r.Recurrence,
			Name:       r.Name,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	return out, nil
}
