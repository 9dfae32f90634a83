package ui

import (
	"log/slog"

	"github.com/rivo/tview"
)

// TableData is a titled grid of cells; the first row is the header.
type TableData struct {
	Title string
	Rows  [][]string
	// Empty replaces the default placeholder when there are no data rows.
	Empty string
}

// PopulateTable replaces the table contents with data. Calling it again with
// the same data leaves the table unchanged.
func PopulateTable(table *tview.Table, data TableData, log *slog.Logger) {
	if table == nil {
		log.Error("populate_table_nil", "title", data.Title)
		return
	}

	table.Clear()
	table.SetTitle(data.Title)

	if len(data.Rows) <= 1 {
		empty := data.Empty
		if empty == "" {
			empty = "No data available"
		}
		table.SetCell(0, 0, tview.NewTableCell(empty).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
		return
	}

	for col, cell := range data.Rows[0] {
		table.SetCell(0, col, tview.NewTableCell("[yellow::b]"+cell+"[-::-]").
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
	}

	for row := 1; row < len(data.Rows); row++ {
		if len(data.Rows[row]) == 0 {
			log.Warn("populate_table_empty_row", "title", data.Title, "row", row)
			continue
		}
		for col, cell := range data.Rows[row] {
			align := tview.AlignLeft
			if col > 0 {
				align = tview.AlignRight
			}
			table.SetCell(row, col, tview.NewTableCell(cell).
				SetAlign(align).
				SetSelectable(true))
		}
	}
	table.ScrollToBeginning()
	log.Debug("table_populated", "title", data.Title, "rows", len(data.Rows)-1)
}
