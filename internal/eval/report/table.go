package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func WriteTable(r *Record, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== STS Evaluation: %s ===\n\n", r.Model)
	fmt.Fprintf(tw, "Family:\t%s\n", r.Family)
	fmt.Fprintf(tw, "Suite:\t%s\n", r.Suite)
	fmt.Fprintf(tw, "Epoch:\t%d\n", r.Epoch)
	fmt.Fprintf(tw, "Run:\t%s\n\n", r.RunID)

	if len(r.Tasks) > 0 {
		writeTaskTable(tw, r)
	}

	header := []string{"Metric", "Value"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join(separator(len(header)), "\t"))
	for _, m := range r.Metrics {
		fmt.Fprintf(tw, "%s\t%.4f\n", m.Name, m.Value)
	}
	fmt.Fprintln(tw)

	tw.Flush()
}

func writeTaskTable(tw *tabwriter.Writer, r *Record) {
	header := []string{"Task", "Pairs", "Pearson", "Spearman", "Duration"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join(separator(len(header)), "\t"))

	for _, t := range r.Tasks {
		row := []string{
			t.Name,
			fmt.Sprintf("%d", t.Pairs),
			fmt.Sprintf("%.4f", t.Pearson),
			fmt.Sprintf("%.4f", t.Spearman),
			fmtDuration(t.Duration),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func separator(n int) []string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return sep
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
