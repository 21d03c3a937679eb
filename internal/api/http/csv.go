package httpapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/meteosonora/globalmet-stats/internal/weather"
)

// statisticsCSVHeader is the fixed column order of the statistics export.
var statisticsCSVHeader = []string{
	"Parametro", "Minimo", "Hora Minimo", "Maximo", "Hora Maximo", "Promedio", "Unidad",
}

// statisticsCSV renders one row per parameter in the fixed export order.
// Null statistics render as empty cells. The temperature unit label follows
// the requested unit; all other labels are fixed.
func statisticsCSV(summary weather.DailySummary, unit weather.Unit) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(statisticsCSVHeader); err != nil {
		return "", err
	}

	for _, p := range weather.Parameters {
		stats := summary.Get(p.Name)

		label := p.UnitLabel
		if p.Name == "temperatura" {
			label = unit.Symbol()
		}

		row := []string{
			p.Display,
			formatFloatCell(stats.Min),
			formatTimeCell(stats.MinTime),
			formatFloatCell(stats.Max),
			formatTimeCell(stats.MaxTime),
			formatFloatCell(stats.Average),
			label,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// measurementsCSV renders the raw upstream records. The header is taken from
// the first record's field names, sorted for a deterministic column order;
// fields missing from later records render as empty cells.
func measurementsCSV(records []weather.Measurement) (string, error) {
	headers := make([]string, 0, len(records[0]))
	for field := range records[0] {
		headers = append(headers, field)
	}
	sort.Strings(headers)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return "", err
	}

	for _, record := range records {
		row := make([]string, 0, len(headers))
		for _, field := range headers {
			row = append(row, formatCell(record[field]))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// sendCSV writes a CSV attachment response named <kind>_<date|hoy>.csv.
func sendCSV(c *fiber.Ctx, kind, dia, body string) error {
	filename := fmt.Sprintf("%s_%s.csv", kind, dateOrToday(dia))

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.SendString(body)
}

func formatFloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTimeCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}
