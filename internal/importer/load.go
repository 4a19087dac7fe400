package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadCatalog reads a catalog file. JSON and YAML files use the CatalogFile
// layout; CSV files use the scraper's column layout.
func LoadCatalog(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		cat, err := ParseCatalogCSV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing catalog csv %s: %w", path, err)
		}
		return cat, nil
	}
	var cat CatalogFile
	if err := decode(path, data, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadPromos reads a promo recurrence file.
func LoadPromos(path string) (PromoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	promos := PromoFile{}
	if err := decode(path, data, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

// LoadOverrides reads an overrides file.
func LoadOverrides(path string) (*OverridesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ov OverridesFile
	if err := decode(path, data, &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

// LoadItinerary reads an itinerary file.
func LoadItinerary(path string) (*ItineraryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var it ItineraryFile
	if err := decode(path, data, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// decode picks the format from the file extension. Anything that is not
// YAML is parsed as JSON.
func decode(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w: %w", path, ErrMalformedInput, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w: %w", path, ErrMalformedInput, err)
		}
	}
	return nil
}
