package main

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yungbote/cartcheck/internal/app"
	"github.com/yungbote/cartcheck/internal/cartvalidation"
)

var rulesFlags struct {
	available bool
	format    string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show which rules are registered for each extension point and store",
	RunE:  runRules,
}

func init() {
	f := rulesCmd.Flags()
	f.BoolVar(&rulesFlags.available, "available", false, "List the rule names each extension point accepts instead")
	f.StringVar(&rulesFlags.format, "format", formatTable, "Output format: table, markdown or json")
}

type ruleRow struct {
	Point    string   `json:"point"`
	Selector string   `json:"selector,omitempty"`
	Rules    []string `json:"rules"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(rulesFlags.format); err != nil {
		return err
	}
	return withApp(cmd, func(a *app.App) error {
		var rows []ruleRow
		if rulesFlags.available {
			for _, point := range extensionPointNames() {
				rows = append(rows, ruleRow{Point: point, Rules: a.Rules.Names(point)})
			}
		} else {
			for _, e := range a.Registry.Entries() {
				rows = append(rows, ruleRow{Point: e.Point, Selector: e.Selector.String(), Rules: e.Rules})
			}
		}

		out := cmd.OutOrStdout()
		if rulesFlags.format == formatJSON {
			return writeJSON(out, rows)
		}
		w := newTable(rulesFlags.format)
		if rulesFlags.available {
			w.AppendHeader(table.Row{"Extension point", "Rules"})
		} else {
			w.AppendHeader(table.Row{"Extension point", "Selector", "Rules"})
		}
		for _, r := range rows {
			if rulesFlags.available {
				w.AppendRow(table.Row{r.Point, joinNames(r.Rules)})
			} else {
				w.AppendRow(table.Row{r.Point, r.Selector, joinNames(r.Rules)})
			}
			w.AppendSeparator()
		}
		return renderTable(out, w, rulesFlags.format)
	})
}

func extensionPointNames() []string {
	var names []string
	for n := range cartvalidation.CartPoints {
		names = append(names, n)
	}
	for n := range cartvalidation.ItemPoints {
		names = append(names, n)
	}
	for n := range cartvalidation.SkuPoints {
		names = append(names, n)
	}
	for n := range cartvalidation.SystemPoints {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
