package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/yungbote/cartcheck/internal/validation/diag"
)

const (
	formatTable    = "table"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatMarkdown, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown --format %q (want table, markdown or json)", f)
	}
}

func newTable(format string) table.Writer {
	w := table.NewWriter()
	if format != formatMarkdown {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func renderTable(out io.Writer, w table.Writer, format string) error {
	var s string
	if format == formatMarkdown {
		s = w.RenderMarkdown()
	} else {
		s = w.Render()
	}
	_, err := fmt.Fprintln(out, s)
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeDiagnostics prints ds in format. An empty list prints a single "valid" line
// in the table formats.
func writeDiagnostics(out io.Writer, ds []diag.Diagnostic, format string) error {
	if format == formatJSON {
		if ds == nil {
			ds = []diag.Diagnostic{}
		}
		return writeJSON(out, ds)
	}
	if len(ds) == 0 {
		_, err := fmt.Fprintln(out, "valid: no diagnostics")
		return err
	}
	w := newTable(format)
	w.AppendHeader(table.Row{"#", "Kind", "ID", "Data", "Resolution", "Message"})
	for i, d := range ds {
		res := ""
		if d.Resolution != nil {
			res = d.Resolution.EntityType + ":" + d.Resolution.EntityID
		}
		w.AppendRow(table.Row{i + 1, d.Kind, d.ID, d.Data.String(), res, d.DebugMessage})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 6, WidthMax: 60},
	})
	return renderTable(out, w, format)
}

func joinNames(names []string) string {
	return strings.Join(names, "\n")
}
