package weather

import (
	"strconv"
	"time"
)

// Upstream field names reported by the GlobalMet station.
const (
	FieldTemperature = "temperatura_c"
	FieldHumidity    = "humedad_relativa"
	FieldWindSpeed   = "viento_kmh"
	FieldWindGust    = "viento_rafaga_kmh"
	FieldPressure    = "presion_mb"

	// TimestampField holds the observation time of a measurement.
	TimestampField = "fecha_medicion"
)

// Measurement is one upstream-reported observation. The GlobalMet API does
// not guarantee a stable schema, so it is kept as a loose mapping; fields may
// be absent, null, or non-numeric.
type Measurement map[string]any

// Float returns the named field coerced to float64. Absent, null, and
// non-coercible values report false.
func (m Measurement) Float(field string) (float64, bool) {
	raw, ok := m[field]
	if !ok || raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// timestampLayouts are tried in order when parsing the observation time.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Time returns the measurement's observation time in the given location.
// Layouts without a zone offset are interpreted as station-local time.
func (m Measurement) Time(loc *time.Location) (time.Time, bool) {
	raw, ok := m[TimestampField]
	if !ok {
		return time.Time{}, false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts.In(loc), true
		}
	}
	return time.Time{}, false
}

// Parameter describes one weather parameter the service reports on.
type Parameter struct {
	// Name is the JSON key used in summaries (Spanish, matches the API paths).
	Name string
	// Field is the upstream measurement field the parameter reads from.
	Field string
	// Display is the human-readable name used in CSV exports.
	Display string
	// UnitLabel is the fixed unit label for CSV exports. Temperature is the
	// exception; its label depends on the requested unit.
	UnitLabel string
}

// Parameters lists every reported parameter in the fixed export order.
var Parameters = []Parameter{
	{Name: "temperatura", Field: FieldTemperature, Display: "Temperatura", UnitLabel: "°C"},
	{Name: "humedad", Field: FieldHumidity, Display: "Humedad Relativa", UnitLabel: "%"},
	{Name: "viento", Field: FieldWindSpeed, Display: "Viento", UnitLabel: "km/h"},
	{Name: "rafaga", Field: FieldWindGust, Display: "Rafaga de Viento", UnitLabel: "km/h"},
	{Name: "presion", Field: FieldPressure, Display: "Presion", UnitLabel: "mb"},
}

// DailySummary groups the statistics of every parameter for one day.
type DailySummary struct {
	Temperatura Statistics `json:"temperatura"`
	Humedad     Statistics `json:"humedad"`
	Viento      Statistics `json:"viento"`
	Rafaga      Statistics `json:"rafaga"`
	Presion     Statistics `json:"presion"`
}

// Get returns the statistics block for a parameter name. Unknown names return
// an all-null Statistics.
func (d DailySummary) Get(name string) Statistics {
	switch name {
	case "temperatura":
		return d.Temperatura
	case "humedad":
		return d.Humedad
	case "viento":
		return d.Viento
	case "rafaga":
		return d.Rafaga
	case "presion":
		return d.Presion
	default:
		return Statistics{}
	}
}
