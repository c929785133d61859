package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"catalogid/internal/idcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the persisted id caches",
		Long: `Inspect the persisted id caches.

Each cache maps a natural key to a stable integer id:
  offering_id   - "term-crn" of one offering
  course_id     - "term-crn" of every offering in a course
  professor_id  - "name <email>" or bare name
  flag_id       - requirement flag text`,
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	return cacheCmd
}

type cacheSummary struct {
	Kind    idcache.Kind `json:"kind"`
	Path    string       `json:"path"`
	Entries int          `json:"entries"`
	MaxID   int          `json:"max_id"`
	Strict  bool         `json:"strict"`
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [kind]",
		Short: "List cache entries, or summarize every cache when no kind is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if len(args) == 0 {
				summaries := make([]cacheSummary, 0, len(idcache.Kinds))
				for _, kind := range idcache.Kinds {
					c, err := idcache.Load(cfg.Paths.CacheDir, kind)
					if err != nil {
						return err
					}
					summaries = append(summaries, cacheSummary{
						Kind:    kind,
						Path:    c.Path(),
						Entries: c.Len(),
						MaxID:   c.Max(),
						Strict:  kind.Strict(),
					})
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, summaries)
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{string(s.Kind), strconv.Itoa(s.Entries), strconv.Itoa(s.MaxID), yesNo(s.Strict)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Cache", "Entries", "Max ID", "Strict"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
					colorize,
				))
				return nil
			}

			kind, err := idcache.ParseKind(args[0])
			if err != nil {
				return err
			}
			c, err := idcache.Load(cfg.Paths.CacheDir, kind)
			if err != nil {
				return err
			}
			entries := c.Entries()
			if ctx.JSONMode() {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(out, "%s cache: empty\n", kind)
				return nil
			}
			fmt.Fprintf(out, "%s cache: %d entries\n", kind, len(entries))
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{strconv.Itoa(e.ID), e.Key})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Key"}, rows, []columnAlignment{alignRight, alignLeft}, colorize))
			return nil
		},
	}
}
