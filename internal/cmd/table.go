package cmd

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/taigrr/colorhash"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var lotPalette = []text.Color{
	text.FgHiRed,
	text.FgHiGreen,
	text.FgHiYellow,
	text.FgHiBlue,
	text.FgHiMagenta,
	text.FgHiCyan,
}

// lotColor returns the same colour for a lot on every run.
func lotColor(fullForm string) text.Color {
	h := int(colorhash.HashString(fullForm))
	if h < 0 {
		h = -h
	}
	return lotPalette[h%len(lotPalette)]
}

// lotLabel is fullForm, coloured when w is a terminal.
func lotLabel(w io.Writer, fullForm string) string {
	if !shouldColorize(w) {
		return fullForm
	}
	return lotColor(fullForm).Sprint(fullForm)
}
