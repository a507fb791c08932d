package ui

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/quantmind-br/py/internal/core"
)

// RenderInterpreters prints the candidate set as a compact table.
// The engine imposes no display ordering; rows appear in discovery order.
func RenderInterpreters(w io.Writer, interpreters []core.Interpreter) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Version", "Arch", "Origin", "Path"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, interp := range interpreters {
		table.Append(
			interp.Version.String(),
			ColorizeArch(interp.Arch),
			ColorizeTier(interp.Tier),
			interp.Path,
		)
	}

	table.Render()
}

// RenderInterpretersDetailed prints the candidate set with box drawing,
// for the wider doctor/details views
func RenderInterpretersDetailed(w io.Writer, interpreters []core.Interpreter) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Version", "Arch", "Origin", "Path"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, interp := range interpreters {
		path := interp.Path
		if len(path) > 60 {
			path = "..." + path[len(path)-57:]
		}

		table.Append(
			interp.Version.String(),
			ColorizeArch(interp.Arch),
			ColorizeTier(interp.Tier),
			path,
		)
	}

	table.Render()
}
