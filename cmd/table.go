package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableLayout describes one of the CLI tables. Numeric holds the 1-based
// column numbers that are right aligned; the footer is optional.
type tableLayout struct {
	header  table.Row
	footer  table.Row
	numeric []int
}

var (
	summaryLayout = tableLayout{
		header:  table.Row{"Directory", "Status", "Pages", "Files", "Collisions", "Manifest / Reason"},
		numeric: []int{3, 4, 5},
	}
	pagesLayout = tableLayout{
		header: table.Row{"Page", "Files", "File IDs"},
	}
)

func (l tableLayout) render(rows []table.Row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(l.header)
	tw.AppendRows(rows)
	if len(l.footer) > 0 {
		tw.AppendFooter(l.footer)
	}

	configs := make([]table.ColumnConfig, 0, len(l.numeric))
	for _, col := range l.numeric {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
			AlignFooter: text.AlignRight,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// withFooter returns a copy of l that renders footer below the rows
func (l tableLayout) withFooter(footer table.Row) tableLayout {
	l.footer = footer
	return l
}
