package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sheetclean/adapters/datareadiness/normalizer"
	"sheetclean/internal/profiling"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSheetSummary prints one line per column: its settled type, storage,
// null count and the stage that decided it
func writeSheetSummary(w io.Writer, sheet normalizer.CleanSheet) error {
	fmt.Fprintf(w, "%s (%d rows)\n", sheet.Name, sheet.Table.RowCount())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tSTORAGE\tNULLS\tDECIDED BY")
	for i, col := range sheet.Table.Columns {
		decidedBy := ""
		if i < len(sheet.Reports) {
			decidedBy = string(sheet.Reports[i].Analysis.DecidedBy)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", col.Name, col.Type, col.Storage, col.NullCount(), decidedBy)
	}
	return tw.Flush()
}

func writeProfile(w io.Writer, sheet string, profile *profiling.TableProfile) error {
	fmt.Fprintf(w, "%s (%d rows)\n", sheet, profile.RowCount)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tNULL %\tDISTINCT\tWARNINGS\tDESCRIPTION")
	for _, col := range profile.Columns {
		warnings := make([]string, len(col.Warnings))
		for i, warning := range col.Warnings {
			warnings[i] = string(warning)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%s\t%s\n",
			col.Name, col.Type, col.NullRatio*100, col.DistinctCount, strings.Join(warnings, ","), col.Description)
	}
	return tw.Flush()
}
