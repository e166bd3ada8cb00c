package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"finwarehouse/internal/warehouse"
)

var titleColor = color.New(color.FgCyan, color.Bold).SprintFunc()

// renderResult prints a query result as an aligned table.
func renderResult(w io.Writer, result *warehouse.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(result.Columns)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		table.Append(cells)
	}
	table.Render()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.2f", val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
