package domain

import "fmt"

// Segment is one country-stay of an itinerary. An empty Country is a
// wildcard matched by every plan (single-region trips).
type Segment struct {
	Country string
	Days    int
	DataMB  int64
}

func (s Segment) Label() string {
	if s.Country == "" {
		return "trip"
	}
	return s.Country
}

// DailyNeedMB is the segment's average data need per day.
func (s Segment) DailyNeedMB() float64 {
	if s.Days <= 0 {
		return 0
	}
	return float64(s.DataMB) / float64(s.Days)
}

// Itinerary is an ordered list of segments. Order matters for reporting only.
type Itinerary []Segment

// SingleRegionItinerary builds the degenerate one-segment itinerary.
func SingleRegionItinerary(days int, dataMB int64) Itinerary {
	return Itinerary{{Days: days, DataMB: dataMB}}
}

func (it Itinerary) TotalDays() int {
	total := 0
	for _, s := range it {
		total += s.Days
	}
	return total
}

func (it Itinerary) TotalDataMB() int64 {
	var total int64
	for _, s := range it {
		total += s.DataMB
	}
	return total
}

// Validate fails fast on the first malformed segment.
func (it Itinerary) Validate() error {
	if len(it) == 0 {
		return fmt.Errorf("itinerary has no segments")
	}
	for i, s := range it {
		if s.Days <= 0 {
			return fmt.Errorf("segments[%d] (%s): duration must be positive, got %d", i, s.Label(), s.Days)
		}
		if s.DataMB < 0 {
			return fmt.Errorf("segments[%d] (%s): data requirement must not be negative", i, s.Label())
		}
	}
	return nil
}
