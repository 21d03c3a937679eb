package weather

import (
	"strings"
	"time"
)

// NoTimeLabel is reported when an extreme value has no parseable timestamp.
const NoTimeLabel = "--"

// Statistics summarizes one parameter over a day of measurements. All fields
// are null when no valid value exists for the parameter. MinTime/MaxTime hold
// the station-local time of day (HH:MM) at which the extreme was first
// observed, or NoTimeLabel when the winning record had no usable timestamp.
type Statistics struct {
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Average *float64 `json:"promedio"`
	MinTime *string  `json:"min_time"`
	MaxTime *string  `json:"max_time"`
}

// Compute calculates min, max, and average of a field over a list of
// measurements, tracking the time of day each extreme was first reached.
// Ties resolve to the earliest record in input order.
//
// An empty measurement list is an ErrNoData error. Records where the field is
// absent, null, or non-numeric are skipped; if nothing remains the result is
// all-null, which is not an error.
func Compute(records []Measurement, field string, loc *time.Location) (Statistics, error) {
	if len(records) == 0 {
		return Statistics{}, NewError(ErrNoData, "no measurements provided")
	}

	var (
		count    int
		sum      float64
		min, max float64
		minTime  string
		maxTime  string
	)

	for _, record := range records {
		v, ok := record.Float(field)
		if !ok {
			continue
		}

		label := timeLabel(record, loc)
		if count == 0 {
			min, max = v, v
			minTime, maxTime = label, label
		} else {
			if v < min {
				min = v
				minTime = label
			}
			if v > max {
				max = v
				maxTime = label
			}
		}

		sum += v
		count++
	}

	if count == 0 {
		return Statistics{}, nil
	}

	avg := sum / float64(count)
	return Statistics{
		Min:     &min,
		Max:     &max,
		Average: &avg,
		MinTime: &minTime,
		MaxTime: &maxTime,
	}, nil
}

// timeLabel renders a measurement's observation time as HH:MM station-local
// time, or NoTimeLabel when missing or unparseable.
func timeLabel(m Measurement, loc *time.Location) string {
	ts, ok := m.Time(loc)
	if !ok {
		return NoTimeLabel
	}
	return ts.Format("15:04")
}

// Summarize computes statistics for every parameter over one shared
// measurement list.
func Summarize(records []Measurement, loc *time.Location) (DailySummary, error) {
	var summary DailySummary

	for _, p := range Parameters {
		stats, err := Compute(records, p.Field, loc)
		if err != nil {
			return DailySummary{}, err
		}

		switch p.Name {
		case "temperatura":
			summary.Temperatura = stats
		case "humedad":
			summary.Humedad = stats
		case "viento":
			summary.Viento = stats
		case "rafaga":
			summary.Rafaga = stats
		case "presion":
			summary.Presion = stats
		}
	}

	return summary, nil
}

// Unit is a temperature unit accepted by the conversion operations.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
	UnitKelvin     Unit = "kelvin"
)

// ParseUnit normalizes a unit string, defaulting empty input to Celsius.
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return UnitCelsius, nil
	}
	u := Unit(strings.ToLower(s))
	if !u.valid() {
		return "", NewError(ErrInvalidUnit, "invalid temperature unit: %s, must be celsius, fahrenheit, or kelvin", s)
	}
	return u, nil
}

// Symbol returns the display symbol for the unit.
func (u Unit) Symbol() string {
	switch u {
	case UnitFahrenheit:
		return "°F"
	case UnitKelvin:
		return "K"
	default:
		return "°C"
	}
}

func (u Unit) valid() bool {
	switch u {
	case UnitCelsius, UnitFahrenheit, UnitKelvin:
		return true
	}
	return false
}

// ConvertTemperature converts a Celsius value to the given unit.
func ConvertTemperature(celsius float64, unit Unit) (float64, error) {
	switch Unit(strings.ToLower(string(unit))) {
	case UnitCelsius:
		return celsius, nil
	case UnitFahrenheit:
		return celsius*9/5 + 32, nil
	case UnitKelvin:
		return celsius + 273.15, nil
	default:
		return 0, NewError(ErrInvalidUnit, "invalid temperature unit: %s, must be celsius, fahrenheit, or kelvin", unit)
	}
}

// ConvertStatistics converts a temperature statistics block to the given
// unit. The unit is validated before anything else, so an invalid unit fails
// even for all-null statistics. When min, max, and average are all null or
// zero the input is returned unchanged; timestamp fields always pass through.
func ConvertStatistics(stats Statistics, unit Unit) (Statistics, error) {
	if !Unit(strings.ToLower(string(unit))).valid() {
		return Statistics{}, NewError(ErrInvalidUnit, "invalid temperature unit: %s, must be celsius, fahrenheit, or kelvin", unit)
	}

	if falsy(stats.Min) && falsy(stats.Max) && falsy(stats.Average) {
		return stats, nil
	}

	converted := stats
	for _, field := range []**float64{&converted.Min, &converted.Max, &converted.Average} {
		if *field == nil {
			continue
		}
		v, err := ConvertTemperature(**field, unit)
		if err != nil {
			return Statistics{}, err
		}
		*field = &v
	}
	return converted, nil
}

func falsy(v *float64) bool {
	return v == nil || *v == 0
}
