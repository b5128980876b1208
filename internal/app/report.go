package app

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderReport transposes summaries into a markdown table.
// Rows are metric names in MetricNames order, columns are entry names in given order.
func RenderReport(entries []ReportEntry) (string, error) {
	header := []string{""}
	columns := make([]map[string]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			return "", fmt.Errorf("duplicated report column %q", e.Name)
		}
		seen[e.Name] = true
		header = append(header, e.Name)

		values := make(map[string]string, len(MetricNames))
		for _, m := range e.Summary.Metrics() {
			v, err := formatMetricValue(m.Value)
			if err != nil {
				return "", fmt.Errorf("column %q, metric %q: %w", e.Name, m.Name, err)
			}
			values[m.Name] = v
		}
		columns = append(columns, values)
	}

	rows := make([][]string, 0, len(MetricNames))
	for _, name := range MetricNames {
		row := []string{name}
		for i, col := range columns {
			v, ok := col[name]
			if !ok {
				return "", fmt.Errorf("column %q is missing metric %q", entries[i].Name, name)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}

	return formatMarkdownTable(header, rows), nil
}

func formatMetricValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val), nil
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s, nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// formatMarkdownTable writes pipe table with first column left aligned and value columns right aligned.
func formatMarkdownTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(len(h), 3)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i, cell := range cells {
			pad := strings.Repeat(" ", widths[i]-len(cell))
			if i == 0 {
				sb.WriteString(" " + cell + pad + " |")
			} else {
				sb.WriteString(" " + pad + cell + " |")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for i, w := range widths {
		if i == 0 {
			sb.WriteString(":" + strings.Repeat("-", w+1) + "|")
		} else {
			sb.WriteString(strings.Repeat("-", w+1) + ":|")
		}
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}
