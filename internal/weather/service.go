package weather

import "context"

// Service orchestrates fetching measurements from the upstream source and
// computing per-parameter statistics. It holds no per-request state; every
// call re-fetches from upstream.
type Service struct {
	fetcher Fetcher
	clock   Clock
}

// NewService creates a new Service.
func NewService(fetcher Fetcher, clock Clock) *Service {
	return &Service{
		fetcher: fetcher,
		clock:   clock,
	}
}

// Clock exposes the injected clock so callers can validate dates against the
// same notion of "today".
func (s *Service) Clock() Clock {
	return s.clock
}

// Measurements returns the raw measurement list for a date (empty date means
// today in the station timezone).
func (s *Service) Measurements(ctx context.Context, date string) ([]Measurement, error) {
	return s.fetcher.FetchMeasurements(ctx, date)
}

// FieldStatistics computes statistics for a single upstream field. Zero
// measurements for the day is a legitimate steady state, not a fault, and
// yields all-null statistics.
func (s *Service) FieldStatistics(ctx context.Context, date, field string) (Statistics, error) {
	records, err := s.fetcher.FetchMeasurements(ctx, date)
	if err != nil {
		return Statistics{}, err
	}
	if len(records) == 0 {
		return Statistics{}, nil
	}
	return Compute(records, field, s.clock.Location)
}

// TemperatureStatistics computes temperature statistics converted to the
// requested unit.
func (s *Service) TemperatureStatistics(ctx context.Context, date string, unit Unit) (Statistics, error) {
	stats, err := s.FieldStatistics(ctx, date, FieldTemperature)
	if err != nil {
		return Statistics{}, err
	}
	if unit == UnitCelsius {
		return stats, nil
	}
	return ConvertStatistics(stats, unit)
}

// DailySummary computes statistics for all parameters in one fetch. Only the
// temperature block is converted to the requested unit.
func (s *Service) DailySummary(ctx context.Context, date string, unit Unit) (DailySummary, error) {
	records, err := s.fetcher.FetchMeasurements(ctx, date)
	if err != nil {
		return DailySummary{}, err
	}
	return s.SummarizeRecords(records, unit)
}

// SummarizeRecords builds a DailySummary from an already-fetched measurement
// list, converting the temperature block to the requested unit. An empty list
// yields an all-null summary.
func (s *Service) SummarizeRecords(records []Measurement, unit Unit) (DailySummary, error) {
	if len(records) == 0 {
		return DailySummary{}, nil
	}

	summary, err := Summarize(records, s.clock.Location)
	if err != nil {
		return DailySummary{}, err
	}

	if unit != UnitCelsius {
		summary.Temperatura, err = ConvertStatistics(summary.Temperatura, unit)
		if err != nil {
			return DailySummary{}, err
		}
	}
	return summary, nil
}
