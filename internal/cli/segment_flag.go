package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
)

// segmentsValue collects repeated --segment COUNTRY:DAYS:DATA flags in the
// order given.
type segmentsValue struct {
	segments domain.Itinerary
}

var _ pflag.Value = (*segmentsValue)(nil)

func (v *segmentsValue) String() string {
	parts := make([]string, len(v.segments))
	for i, s := range v.segments {
		parts[i] = fmt.Sprintf("%s:%d:%d", s.Country, s.Days, s.DataMB)
	}
	return strings.Join(parts, ",")
}

func (v *segmentsValue) Set(raw string) error {
	seg, err := parseSegment(raw)
	if err != nil {
		return err
	}
	v.segments = append(v.segments, seg)
	return nil
}

func (v *segmentsValue) Type() string { return "segment" }

// parseSegment reads "DE:10:5000", "DE:10:5GB" or "DE:10:500MB". A bare
// data amount is in megabytes.
func parseSegment(raw string) (domain.Segment, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return domain.Segment{}, fmt.Errorf("segment %q: want COUNTRY:DAYS:DATA", raw)
	}
	country := domain.NormalizeCountry(parts[0])
	if country == "" {
		return domain.Segment{}, fmt.Errorf("segment %q: country is required", raw)
	}
	days, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || days < 1 {
		return domain.Segment{}, fmt.Errorf("segment %q: days must be a positive whole number", raw)
	}
	mb, err := parseDataSize(parts[2])
	if err != nil {
		return domain.Segment{}, fmt.Errorf("segment %q: %w", raw, err)
	}
	return domain.Segment{Country: country, Days: days, DataMB: mb}, nil
}

func parseDataSize(raw string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	unit := 1.0
	switch {
	case strings.HasSuffix(s, "GB"):
		s, unit = strings.TrimSuffix(s, "GB"), importer.MBPerGB
	case strings.HasSuffix(s, "MB"):
		s = strings.TrimSuffix(s, "MB")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("data amount %q must be a non-negative number with an optional GB or MB suffix", raw)
	}
	return int64(math.Ceil(n * unit)), nil
}
