package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	heading = color.New(color.Bold, color.Underline).SprintFunc()
	accent  = color.New(color.FgCyan).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	star    = color.New(color.FgYellow).SprintFunc()
)

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 120
	return tbl
}

func printTable(w io.Writer, title string, tbl *uitable.Table) {
	if title != "" {
		_, _ = fmt.Fprintln(w, heading(title))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func mark(on bool, symbol string) string {
	if on {
		return star(symbol)
	}
	return ""
}
