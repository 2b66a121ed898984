package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"trainingevents/internal/ports/input"
)

func NewAssignCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "assign",
		Short:         "Run lesson plan assignment once and print the report",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), rootOpts.Config)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.assignment.Assign(cmd.Context())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), rootOpts.Format, report)
		},
	}
}

type reportJSON struct {
	Assigned map[int64]int64  `json:"assigned"`
	Skipped  []int64          `json:"skipped"`
	Failed   map[int64]string `json:"failed"`
}

func writeReport(w io.Writer, format string, report *input.AssignmentReport) error {
	if format == "json" {
		out := reportJSON{
			Assigned: report.Assigned,
			Skipped:  report.Skipped,
			Failed:   make(map[int64]string, len(report.Failed)),
		}
		if out.Skipped == nil {
			out.Skipped = []int64{}
		}
		for id, err := range report.Failed {
			out.Failed[id] = err.Error()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, id := range sortedIDs(report.Assigned) {
		fmt.Fprintf(w, "event %d: lesson plan %d\n", id, report.Assigned[id])
	}
	for _, id := range report.Skipped {
		fmt.Fprintf(w, "event %d: skipped\n", id)
	}
	for _, id := range sortedIDs(report.Failed) {
		fmt.Fprintf(w, "event %d: failed: %v\n", id, report.Failed[id])
	}
	return nil
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
