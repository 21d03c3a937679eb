package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/meteosonora/globalmet-stats/internal/weather"
)

var validate = validator.New()

// maxChartPoints caps dashboard chart series for readability.
const maxChartPoints = 24

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	api := app.Group("/api")

	stats := api.Group("/estadisticas")
	stats.Get("/temperatura", func(c *fiber.Ctx) error {
		var q unitQuery
		if err := q.bind(c, service.Clock()); err != nil {
			return err
		}

		result, err := service.TemperatureStatistics(c.Context(), q.Dia, q.unit())
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	stats.Get("/humedad", fieldStatisticsHandler(service, weather.FieldHumidity))
	stats.Get("/viento", fieldStatisticsHandler(service, weather.FieldWindSpeed))
	stats.Get("/rafaga", fieldStatisticsHandler(service, weather.FieldWindGust))
	stats.Get("/presion", fieldStatisticsHandler(service, weather.FieldPressure))

	api.Get("/resumen/diario", func(c *fiber.Ctx) error {
		var q unitQuery
		if err := q.bind(c, service.Clock()); err != nil {
			return err
		}

		summary, err := service.DailySummary(c.Context(), q.Dia, q.unit())
		if err != nil {
			return err
		}
		return c.JSON(summary)
	})

	export := api.Group("/exportar")

	export.Get("/estadisticas", func(c *fiber.Ctx) error {
		var q unitQuery
		if err := q.bind(c, service.Clock()); err != nil {
			return err
		}

		summary, err := service.DailySummary(c.Context(), q.Dia, q.unit())
		if err != nil {
			return err
		}

		body, err := statisticsCSV(summary, q.unit())
		if err != nil {
			return err
		}
		return sendCSV(c, "estadisticas", q.Dia, body)
	})

	export.Get("/mediciones", func(c *fiber.Ctx) error {
		var q dateQuery
		if err := q.bind(c, service.Clock()); err != nil {
			return err
		}

		records, err := service.Measurements(c.Context(), q.Dia)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return weather.NewError(weather.ErrNoDataFound, "no measurements found for date: %s", dateOrToday(q.Dia))
		}

		body, err := measurementsCSV(records)
		if err != nil {
			return err
		}
		return sendCSV(c, "mediciones", q.Dia, body)
	})

	api.Get("/dashboard/datos", func(c *fiber.Ctx) error {
		var q unitQuery
		if err := q.bind(c, service.Clock()); err != nil {
			return err
		}

		records, err := service.Measurements(c.Context(), q.Dia)
		if err != nil {
			return err
		}

		summary, err := service.SummarizeRecords(records, q.unit())
		if err != nil {
			return err
		}

		series, err := chartSeries(records, q.unit(), service.Clock())
		if err != nil {
			return err
		}

		day := q.Dia
		if day == "" {
			day = service.Clock().Today()
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"date":           day,
			"statistics":     summary,
			"series":         series,
			"raw_data_count": len(records),
		})
	})
}

// fieldStatisticsHandler serves the single-parameter statistics endpoints
// that take no unit conversion.
func fieldStatisticsHandler(service *weather.Service, field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q dateQuery
		if err := q.bind(c, service.Clock()); err != nil {
			return err
		}

		result, err := service.FieldStatistics(c.Context(), q.Dia, field)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// dateQuery holds the optional date query parameter shared by all endpoints.
type dateQuery struct {
	Dia string `validate:"omitempty,datetime=2006-01-02"`
}

func (q *dateQuery) bind(c *fiber.Ctx, clock weather.Clock) error {
	q.Dia = c.Query("dia")

	if err := validate.Struct(q); err != nil {
		return weather.NewError(weather.ErrInvalidDate, "invalid date format: %s, expected YYYY-MM-DD", q.Dia)
	}

	// Lexicographic comparison is safe for YYYY-MM-DD.
	if q.Dia != "" && q.Dia > clock.Today() {
		return weather.NewError(weather.ErrInvalidDate, "date cannot be in the future: %s", q.Dia)
	}
	return nil
}

// unitQuery adds the optional temperature unit, defaulting to celsius.
type unitQuery struct {
	Dia    string `validate:"omitempty,datetime=2006-01-02"`
	Unidad string `validate:"omitempty,oneof=celsius fahrenheit kelvin"`
}

func (q *unitQuery) bind(c *fiber.Ctx, clock weather.Clock) error {
	var date dateQuery
	if err := date.bind(c, clock); err != nil {
		return err
	}
	q.Dia = date.Dia

	q.Unidad = c.Query("unidad")

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Unidad" {
					return weather.NewError(weather.ErrInvalidUnit, "invalid temperature unit: %s, must be celsius, fahrenheit, or kelvin", q.Unidad)
				}
			}
		}
		return weather.NewError(weather.ErrInvalidDate, "invalid date format: %s, expected YYYY-MM-DD", q.Dia)
	}
	return nil
}

func (q unitQuery) unit() weather.Unit {
	// Validation happened in bind; empty means celsius.
	u, err := weather.ParseUnit(q.Unidad)
	if err != nil {
		return weather.UnitCelsius
	}
	return u
}

func dateOrToday(dia string) string {
	if dia == "" {
		return "hoy"
	}
	return dia
}

// chartSeries shapes measurements into per-parameter series for the
// dashboard, capped at maxChartPoints. Temperature values are converted to
// the requested unit.
func chartSeries(records []weather.Measurement, unit weather.Unit, clock weather.Clock) (fiber.Map, error) {
	n := len(records)
	if n > maxChartPoints {
		n = maxChartPoints
	}

	labels := make([]string, 0, n)
	values := map[string][]*float64{}
	for _, p := range weather.Parameters {
		values[p.Name] = make([]*float64, 0, n)
	}

	for i, record := range records[:n] {
		if ts, ok := record.Time(clock.Location); ok {
			labels = append(labels, ts.Format("15:04"))
		} else {
			labels = append(labels, fmt.Sprintf("Registro %d", i+1))
		}

		for _, p := range weather.Parameters {
			v, ok := record.Float(p.Field)
			if !ok {
				values[p.Name] = append(values[p.Name], nil)
				continue
			}
			if p.Field == weather.FieldTemperature && unit != weather.UnitCelsius {
				converted, err := weather.ConvertTemperature(v, unit)
				if err != nil {
					return nil, err
				}
				v = converted
			}
			point := v
			values[p.Name] = append(values[p.Name], &point)
		}
	}

	series := fiber.Map{
		"labels":             labels,
		"temperatura_unidad": unit.Symbol(),
	}
	for name, vals := range values {
		series[name] = vals
	}
	return series, nil
}
