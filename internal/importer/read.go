package importer

import (
	"fmt"

	"github.com/alexanderramin/roamer/internal/domain"
)

// ReadCatalog loads, validates and converts a catalog file in one step.
func ReadCatalog(path string) ([]*domain.Plan, error) {
	cat, err := LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if err := AsError(path, ValidateCatalog(cat)); err != nil {
		return nil, err
	}
	return ConvertCatalog(cat)
}

func ReadPromos(path string) (domain.PromoTable, error) {
	promos, err := LoadPromos(path)
	if err != nil {
		return nil, fmt.Errorf("loading promo table: %w", err)
	}
	if err := AsError(path, ValidatePromos(promos)); err != nil {
		return nil, err
	}
	return ConvertPromos(promos), nil
}

func ReadOverrides(path string) (*Overrides, error) {
	ov, err := LoadOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}
	if err := AsError(path, ValidateOverrides(ov)); err != nil {
		return nil, err
	}
	return ConvertOverrides(ov), nil
}

func ReadItinerary(path string) (domain.Itinerary, error) {
	it, err := LoadItinerary(path)
	if err != nil {
		return nil, fmt.Errorf("loading itinerary: %w", err)
	}
	if err := AsError(path, ValidateItinerary(it)); err != nil {
		return nil, err
	}
	return ConvertItinerary(it), nil
}
