package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"catalogid/internal/pipeline"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve identities for every snapshot in the input directory",
		Long: `Resolve identities for every snapshot in the input directory.

Loads each <term>.json snapshot, assigns offering, course, professor, and
flag ids through the persisted caches, groups courses across terms, and
writes the configured output tables. Caches are only updated when the whole
run succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			res, err := pipeline.Execute(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			summary := res.Summary()
			if ctx.JSONMode() {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderSummary(summary, colorize))

			if len(summary.DiagnosticsByEvent) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(summary.DiagnosticsByEvent))
				for _, event := range res.Diagnostics.Events() {
					rows = append(rows, []string{event, strconv.Itoa(summary.DiagnosticsByEvent[event])})
				}
				fmt.Fprintln(out, renderTable([]string{"Diagnostic", "Count"}, rows, []columnAlignment{alignLeft, alignRight}, colorize))
			}
			for _, path := range summary.Outputs {
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
			return nil
		},
	}
}

func renderSummary(s pipeline.Summary, colorize bool) string {
	rows := [][]string{
		{"Run", s.RunID},
		{"Terms", strconv.Itoa(s.Terms)},
		{"Offerings", strconv.Itoa(s.Offerings)},
		{"Courses", strconv.Itoa(s.Courses)},
		{"Same-course groups", strconv.Itoa(s.SameCourseGroups)},
		{"Same-course-and-professor groups", strconv.Itoa(s.SameCourseAndProfs)},
		{"Professors", strconv.Itoa(s.Professors)},
		{"Flags", strconv.Itoa(s.Flags)},
		{"Diagnostics", strconv.Itoa(s.Diagnostics)},
	}
	return renderTable([]string{"Item", "Value"}, rows, []columnAlignment{alignLeft, alignRight}, colorize)
}
