package weather

import "context"

// Fetcher abstracts the upstream measurement source (the GlobalMet API in
// production, stubs in tests).
//
// date is either empty (meaning "today" in the station timezone) or a
// YYYY-MM-DD string. Implementations validate the format before any network
// call and return an ErrInvalidDate error on mismatch.
type Fetcher interface {
	FetchMeasurements(ctx context.Context, date string) ([]Measurement, error)
}
