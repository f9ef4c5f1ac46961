package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/yungbote/cartcheck/internal/app"
	"github.com/yungbote/cartcheck/internal/services"
)

var sweepFlags struct {
	store       string
	operation   string
	concurrency int
	pageSize    int
	format      string
	verbose     bool
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Validate every stored cart and summarize the diagnostics",
	RunE:  runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.StringVar(&sweepFlags.store, "store", "", "Only sweep carts of this store")
	f.StringVar(&sweepFlags.operation, "op", services.SweepCheckout, "Pass to run: checkout or contents")
	f.IntVar(&sweepFlags.concurrency, "concurrency", 0, "Carts validated in parallel (default SWEEP_CONCURRENCY)")
	f.IntVar(&sweepFlags.pageSize, "page-size", 0, "Cart GUIDs fetched per page (default SWEEP_PAGE_SIZE)")
	f.StringVar(&sweepFlags.format, "format", formatTable, "Output format: table, markdown or json")
	f.BoolVar(&sweepFlags.verbose, "verbose", false, "Print one line per faulted or invalid cart")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(sweepFlags.format); err != nil {
		return err
	}
	return withApp(cmd, func(a *app.App) error {
		in := services.CartSweepInput{
			StoreCode:   sweepFlags.store,
			Operation:   sweepFlags.operation,
			Concurrency: sweepFlags.concurrency,
			PageSize:    sweepFlags.pageSize,
		}
		if in.Concurrency <= 0 {
			in.Concurrency = a.Cfg.SweepConcurrency
		}
		if in.PageSize <= 0 {
			in.PageSize = a.Cfg.SweepPageSize
		}
		errOut := cmd.ErrOrStderr()
		if sweepFlags.verbose {
			in.OnCart = func(r services.CartSweepResult) {
				switch {
				case r.Err != nil:
					fmt.Fprintf(errOut, "%s: fault: %v\n", r.CartGUID, r.Err)
				case len(r.Diagnostics) > 0:
					fmt.Fprintf(errOut, "%s: %d diagnostics\n", r.CartGUID, len(r.Diagnostics))
				}
			}
		}

		res, err := a.Sweep.Run(cmd.Context(), in)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if sweepFlags.format == formatJSON {
			return writeJSON(out, res)
		}
		fmt.Fprintf(out, "carts=%d valid=%d invalid=%d faulted=%d\n", res.Carts, res.Valid, res.Invalid, res.Faulted)
		if len(res.ByID) == 0 {
			return nil
		}
		w := newTable(sweepFlags.format)
		w.AppendHeader(table.Row{"Diagnostic", "Count"})
		for _, id := range res.TopIDs() {
			w.AppendRow(table.Row{id, res.ByID[id]})
		}
		w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		return renderTable(out, w, sweepFlags.format)
	})
}
