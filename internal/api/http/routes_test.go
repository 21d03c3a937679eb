package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tj/assert"

	"github.com/meteosonora/globalmet-stats/internal/weather"
)

// stubFetcher implements weather.Fetcher for handler tests.
type stubFetcher struct {
	records []weather.Measurement
	err     error
	gotDate string
}

func (s *stubFetcher) FetchMeasurements(ctx context.Context, date string) ([]weather.Measurement, error) {
	s.gotDate = date
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func sampleMeasurements() []weather.Measurement {
	return []weather.Measurement{
		{
			"fecha_medicion":    "2023-01-01 06:30:00",
			"temperatura_c":     20.0,
			"humedad_relativa":  50.0,
			"viento_kmh":        8.0,
			"viento_rafaga_kmh": 12.0,
			"presion_mb":        1012.0,
		},
		{
			"fecha_medicion":    "2023-01-01 12:30:00",
			"temperatura_c":     25.0,
			"humedad_relativa":  60.0,
			"viento_kmh":        10.0,
			"viento_rafaga_kmh": 15.0,
			"presion_mb":        1013.25,
		},
		{
			"fecha_medicion":    "2023-01-01 15:45:00",
			"temperatura_c":     30.0,
			"humedad_relativa":  70.0,
			"viento_kmh":        12.0,
			"viento_rafaga_kmh": 18.0,
			"presion_mb":        1015.0,
		},
	}
}

func newTestApp(f weather.Fetcher) *fiber.App {
	clock := weather.Clock{
		Now:      func() time.Time { return time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
	service := weather.NewService(f, clock)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, service)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	assert.Nil(t, err)

	body, err := io.ReadAll(resp.Body)
	assert.Nil(t, err)
	assert.Nil(t, resp.Body.Close())

	return resp, body
}

func decodeStats(t *testing.T, body []byte) weather.Statistics {
	t.Helper()

	var stats weather.Statistics
	assert.Nil(t, json.Unmarshal(body, &stats))
	return stats
}

func TestTemperatureStatistics(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/estadisticas/temperatura")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decodeStats(t, body)
	assert.Equal(t, 20.0, *stats.Min)
	assert.Equal(t, 30.0, *stats.Max)
	assert.Equal(t, 25.0, *stats.Average)
	assert.Equal(t, "06:30", *stats.MinTime)
	assert.Equal(t, "15:45", *stats.MaxTime)
}

func TestTemperatureStatisticsFahrenheit(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/estadisticas/temperatura?unidad=fahrenheit")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decodeStats(t, body)
	assert.Equal(t, 68.0, *stats.Min)
	assert.Equal(t, 86.0, *stats.Max)
	assert.Equal(t, 77.0, *stats.Average)
}

func TestTemperatureStatisticsInvalidUnit(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, _ := doRequest(t, app, "/api/estadisticas/temperatura?unidad=invalid")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFutureDateRejected(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	for _, path := range []string{
		"/api/estadisticas/temperatura?dia=2099-01-01",
		"/api/resumen/diario?dia=2099-01-01",
		"/api/exportar/mediciones?dia=2099-01-01",
	} {
		resp, _ := doRequest(t, app, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestMalformedDateRejected(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, _ := doRequest(t, app, "/api/estadisticas/humedad?dia=01-01-2023")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDateParameterForwarded(t *testing.T) {
	fetcher := &stubFetcher{records: sampleMeasurements()}
	app := newTestApp(fetcher)

	resp, _ := doRequest(t, app, "/api/estadisticas/temperatura?dia=2023-01-01")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2023-01-01", fetcher.gotDate)
}

func TestHumidityStatistics(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/estadisticas/humedad")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decodeStats(t, body)
	assert.Equal(t, 50.0, *stats.Min)
	assert.Equal(t, 70.0, *stats.Max)
	assert.Equal(t, 60.0, *stats.Average)
}

func TestStatisticsWithEmptyUpstream(t *testing.T) {
	app := newTestApp(&stubFetcher{records: nil})

	resp, body := doRequest(t, app, "/api/estadisticas/viento")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decodeStats(t, body)
	assert.Nil(t, stats.Min)
	assert.Nil(t, stats.Max)
	assert.Nil(t, stats.Average)
}

func TestDailySummary(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/resumen/diario")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary weather.DailySummary
	assert.Nil(t, json.Unmarshal(body, &summary))

	assert.Equal(t, 20.0, *summary.Temperatura.Min)
	assert.Equal(t, 30.0, *summary.Temperatura.Max)
	assert.Equal(t, 50.0, *summary.Humedad.Min)
	assert.Equal(t, 8.0, *summary.Viento.Min)
	assert.Equal(t, 18.0, *summary.Rafaga.Max)
	assert.Equal(t, 1012.0, *summary.Presion.Min)
}

func TestDailySummaryKelvinConvertsOnlyTemperature(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/resumen/diario?unidad=kelvin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary weather.DailySummary
	assert.Nil(t, json.Unmarshal(body, &summary))

	assert.Equal(t, 293.15, *summary.Temperatura.Min)
	assert.Equal(t, 50.0, *summary.Humedad.Min)
}

func TestUpstreamErrorMapsTo503(t *testing.T) {
	app := newTestApp(&stubFetcher{err: weather.NewUpstreamError(http.StatusBadGateway, "globalmet api error")})

	resp, body := doRequest(t, app, "/api/estadisticas/temperatura")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var errResp struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	assert.Nil(t, json.Unmarshal(body, &errResp))
	assert.True(t, errResp.Error)
}

func TestExportStatisticsCSV(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/exportar/estadisticas")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="estadisticas_hoy.csv"`, resp.Header.Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, 6, len(lines))
	assert.Equal(t, "Parametro,Minimo,Hora Minimo,Maximo,Hora Maximo,Promedio,Unidad", lines[0])
	assert.Equal(t, "Temperatura,20,06:30,30,15:45,25,°C", lines[1])
	assert.Equal(t, "Humedad Relativa,50,06:30,70,15:45,60,%", lines[2])
}

func TestExportStatisticsCSVWithDateAndUnit(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/exportar/estadisticas?dia=2023-01-01&unidad=fahrenheit")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="estadisticas_2023-01-01.csv"`, resp.Header.Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, "Temperatura,68,06:30,86,15:45,77,°F", lines[1])
}

func TestExportMeasurementsCSV(t *testing.T) {
	records := sampleMeasurements()
	// Drop a field from one record; its cell must render empty.
	delete(records[1], "presion_mb")

	app := newTestApp(&stubFetcher{records: records})

	resp, body := doRequest(t, app, "/api/exportar/mediciones")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="mediciones_hoy.csv"`, resp.Header.Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, 4, len(lines))
	assert.Equal(t, "fecha_medicion,humedad_relativa,presion_mb,temperatura_c,viento_kmh,viento_rafaga_kmh", lines[0])
	assert.Equal(t, "2023-01-01 06:30:00,50,1012,20,8,12", lines[1])
	assert.Equal(t, "2023-01-01 12:30:00,60,,25,10,15", lines[2])
}

func TestExportMeasurementsNoData(t *testing.T) {
	app := newTestApp(&stubFetcher{records: nil})

	resp, body := doRequest(t, app, "/api/exportar/mediciones?dia=2023-01-01")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp struct {
		Message string `json:"message"`
	}
	assert.Nil(t, json.Unmarshal(body, &errResp))
	assert.Contains(t, errResp.Message, "2023-01-01")
}

func TestDashboardData(t *testing.T) {
	app := newTestApp(&stubFetcher{records: sampleMeasurements()})

	resp, body := doRequest(t, app, "/api/dashboard/datos?dia=2023-01-01")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success      bool                 `json:"success"`
		Date         string               `json:"date"`
		Statistics   weather.DailySummary `json:"statistics"`
		RawDataCount int                  `json:"raw_data_count"`
		Series       struct {
			Labels            []string   `json:"labels"`
			Temperatura       []*float64 `json:"temperatura"`
			TemperaturaUnidad string     `json:"temperatura_unidad"`
		} `json:"series"`
	}
	assert.Nil(t, json.Unmarshal(body, &payload))

	assert.True(t, payload.Success)
	assert.Equal(t, "2023-01-01", payload.Date)
	assert.Equal(t, 3, payload.RawDataCount)
	assert.Equal(t, []string{"06:30", "12:30", "15:45"}, payload.Series.Labels)
	assert.Equal(t, 20.0, *payload.Series.Temperatura[0])
	assert.Equal(t, "°C", payload.Series.TemperaturaUnidad)
	assert.Equal(t, 25.0, *payload.Statistics.Temperatura.Average)
}

func TestDashboardDataEmptyUpstream(t *testing.T) {
	app := newTestApp(&stubFetcher{records: nil})

	resp, body := doRequest(t, app, "/api/dashboard/datos")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success      bool `json:"success"`
		RawDataCount int  `json:"raw_data_count"`
	}
	assert.Nil(t, json.Unmarshal(body, &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, 0, payload.RawDataCount)
}
