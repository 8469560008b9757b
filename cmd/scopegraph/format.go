package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"scopegraph/internal/store"
)

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}

// outputResult writes v to stdout in the selected format.
func outputResult(v any) error {
	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return outputResultText(os.Stdout, v)
}

// outputResultText dispatches to the text formatter for v's row type.
func outputResultText(w io.Writer, v any) error {
	switch rows := v.(type) {
	case []store.FileRow:
		tw := newTab(w)
		fmt.Fprintln(tw, "ID\tPATH\tLANGUAGE")
		for _, f := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, f.Path, f.Language)
		}
		return tw.Flush()
	case []store.DefRow:
		tw := newTab(w)
		fmt.Fprintln(tw, "FILE\tNAME\tSYMBOL\tSPAN")
		for _, d := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d-%d\n", d.File, d.Name, d.Symbol, d.StartByte, d.EndByte)
		}
		return tw.Flush()
	case []store.RefRow:
		tw := newTab(w)
		fmt.Fprintln(tw, "FILE\tNAME\tSPAN\tBINDINGS")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%d\n", r.File, r.Name, r.StartByte, r.EndByte, r.Bindings)
		}
		return tw.Flush()
	case []store.UnresolvedRow:
		tw := newTab(w)
		fmt.Fprintln(tw, "FILE\tNAME\tSPAN")
		for _, u := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%d-%d\n", u.File, u.Name, u.StartByte, u.EndByte)
		}
		return tw.Flush()
	case []store.NamespaceRow:
		tw := newTab(w)
		fmt.Fprintln(tw, "FILE\tNAMESPACE\tTYPE\tTARGET\tSTATUS")
		for _, n := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.File, n.Namespace, n.ModuleType, n.TargetFile, n.Status)
		}
		return tw.Flush()
	case []store.EdgeRow:
		tw := newTab(w)
		fmt.Fprintln(tw, "SOURCE\tSCOPE\tTARGET\tSCOPE")
		for _, e := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", e.SourceFile, e.SourceScope, e.TargetFile, e.TargetScope)
		}
		return tw.Flush()
	case []store.TallyRow:
		tw := newTab(w)
		fmt.Fprintln(tw, "FILE\tMISSING\tRESOLVED")
		for _, t := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", t.File, t.Missing, t.Resolved)
		}
		return tw.Flush()
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
}

func newTab(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
