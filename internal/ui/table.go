package ui

import (
	"bytes"

	"github.com/mgutz/ansi"
	"github.com/tomlazar/table"
)

var colorEnabled = true

// SetColorEnabled toggles coloring of tables
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

func tableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           colorEnabled,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

// RenderTable formats the rows as a table
func RenderTable(headers []string, rows [][]string) (string, error) {
	tab := table.Table{
		Headers: headers,
		Rows:    rows,
	}
	var buf bytes.Buffer
	if err := tab.WriteTable(&buf, tableConfig()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PrintTable prints the rows as a table
func PrintTable(headers []string, rows [][]string) {
	tableString, err := RenderTable(headers, rows)
	if err != nil {
		Fatal("Error printing table: %v", err)
	}
	Printfln(tableString)
}
