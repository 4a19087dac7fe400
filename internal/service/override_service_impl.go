package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
	"github.com/alexanderramin/roamer/internal/repository"
)

type overrideService struct {
	overrides repository.OverrideRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewOverrideService(overrides repository.OverrideRepo, uow db.UnitOfWork, observers ...UseCaseObserver) app.OverrideUseCase {
	return &overrideService{
		overrides: overrides,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Import replaces the stored rules and run defaults with the file's.
func (s *overrideService) Import(ctx context.Context, path string) (res *app.OverrideImportResult, err error) {
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "import-overrides", fields, &err)()

	ov, err := importer.ReadOverrides(path)
	if err != nil {
		return nil, err
	}
	fields["rules"] = len(ov.Rules)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteOverrideRepo(tx).Replace(ctx, ov.Rules); err != nil {
			return err
		}
		settings := repository.NewSQLiteSettingsRepo(tx)
		if err := storeSetting(ctx, settings, repository.SettingHassleUnit, moneySetting(ov.HassleUnit)); err != nil {
			return err
		}
		return storeSetting(ctx, settings, repository.SettingUnknownAs, recurrenceSetting(ov.UnknownAs))
	})
	if err != nil {
		return nil, fmt.Errorf("storing overrides: %w", err)
	}
	return &app.OverrideImportResult{
		Rules:      len(ov.Rules),
		HassleUnit: ov.HassleUnit,
		UnknownAs:  ov.UnknownAs,
	}, nil
}

func (s *overrideService) Add(ctx context.Context, rule domain.OverrideRule) (*domain.OverrideRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", importer.ErrMalformedInput, err)
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if err := s.overrides.Add(ctx, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *overrideService) List(ctx context.Context) ([]domain.OverrideRule, error) {
	return s.overrides.List(ctx)
}

func (s *overrideService) Remove(ctx context.Context, id string) error {
	return s.overrides.Delete(ctx, id)
}

// storeSetting sets key, or clears it when value is empty.
func storeSetting(ctx context.Context, settings repository.SettingsRepo, key, value string) error {
	if value == "" {
		return settings.Delete(ctx, key)
	}
	return settings.Set(ctx, key, value)
}

func moneySetting(m *domain.Money) string {
	if m == nil {
		return ""
	}
	return strconv.FormatInt(int64(*m), 10)
}

func recurrenceSetting(r *domain.PromoRecurrence) string {
	if r == nil {
		return ""
	}
	return string(*r)
}
