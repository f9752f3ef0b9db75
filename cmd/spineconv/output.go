package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

func isTerminalFd(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderResults(results []*result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Input", "Output", "Type", "Bytes"})
	for _, r := range results {
		tw.AppendRow(table.Row{r.Input, r.Output, r.Artifact.MIMEType, strconv.Itoa(len(r.Artifact.Data))})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// printResults writes a table on terminals and one output path per line
// otherwise, so the output can be piped.
func printResults(w io.Writer, results []*result, tty bool) {
	if len(results) == 0 {
		return
	}
	if tty {
		fmt.Fprintln(w, renderResults(results))
		return
	}
	for _, r := range results {
		fmt.Fprintln(w, r.Output)
	}
}
