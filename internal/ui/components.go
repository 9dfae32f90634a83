package ui

import (
	"github.com/rivo/tview"
)

// Persona menu entries, in menu order.
var menuItems = []struct {
	label    string
	shortcut rune
}{
	{"National view", '1'},
	{"State admin", '2'},
	{"Operations", '3'},
}

// CreateMenu creates the persona menu
func CreateMenu() *tview.List {
	menu := tview.NewList()
	menu.SetBorder(true).SetTitle(" Persona ")
	menu.ShowSecondaryText(false)
	for _, item := range menuItems {
		menu.AddItem(item.label, "", item.shortcut, nil)
	}
	return menu
}

// CreateDistrictList creates the district selector shown under the menu
func CreateDistrictList() *tview.List {
	list := tview.NewList()
	list.SetBorder(true).SetTitle(" Districts ")
	list.ShowSecondaryText(false)
	list.AddItem("(select a state)", "", 0, nil)
	return list
}

// CreateTable creates a bordered, row-selectable data table
func CreateTable(title string) *tview.Table {
	table := tview.NewTable()
	table.SetBorder(true).SetTitle(title)
	table.SetSelectable(true, false)
	table.SetFixed(1, 0)
	return table
}

// CreateTextPanel creates a bordered, scrollable text view
func CreateTextPanel(title string) *tview.TextView {
	view := tview.NewTextView()
	view.SetBorder(true).SetTitle(title)
	view.SetDynamicColors(true)
	view.SetWordWrap(true)
	view.SetScrollable(true)
	return view
}

// CreateHeader creates the header text view
func CreateHeader() *tview.TextView {
	header := tview.NewTextView()
	header.SetBorder(true)
	header.SetText("AGHI Dashboard - Loading...")
	header.SetTextAlign(tview.AlignCenter)
	header.SetDynamicColors(true)
	return header
}

// CreateFooter creates the footer text view with help text
func CreateFooter() *tview.TextView {
	footer := tview.NewTextView()
	footer.SetBorder(true)
	footer.SetText("q quit | 1/2/3 persona | / search | b back to India | m trend metric | p briefing | h history | i state details | y copy briefing | c chat | r refresh | R reprocess | Tab next panel")
	footer.SetTextAlign(tview.AlignCenter)
	footer.SetDynamicColors(true)
	return footer
}

// CreateInput creates a labeled single-line input
func CreateInput(label string) *tview.InputField {
	input := tview.NewInputField()
	input.SetLabel(label)
	input.SetFieldWidth(0)
	return input
}

// modal centers p in a width x height box over whatever page is below it.
func modal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
