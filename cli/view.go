package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/config"
	"github.com/ankit-chaubey/media-extract/core/extract"
	"github.com/ankit-chaubey/media-extract/core/source"
)

const defaultJobs = 4

type viewOptions struct {
	json    bool
	verbose bool
	types   []string
	geo     bool
	locale  string
	jobs    int
}

func newViewCommand(ctx *commandContext) *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view <file|url|-> [...]",
		Short: "Print the metadata of one or more media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			effective, err := opts.apply(cmd, cfg)
			if err != nil {
				return err
			}
			loader, err := ctx.loader()
			if err != nil {
				return err
			}

			printer := &core.Printer{
				JSON:      opts.json,
				Verbose:   opts.verbose,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
			}
			return runView(cmd.Context(), loader, extract.NewFromConfig(effective), printer, args, opts.jobs)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the raw record as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print the source and detected type above each report")
	cmd.Flags().StringSliceVar(&opts.types, "types", nil, "Media categories to extract (image, audio, video)")
	cmd.Flags().BoolVar(&opts.geo, "geo", false, "Resolve GPS positions to place names")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "Report language (zh, en)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", defaultJobs, "Inputs extracted concurrently")
	return cmd
}

// apply returns a copy of cfg with the flags that were set layered on top.
func (o viewOptions) apply(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	effective := *cfg
	flags := cmd.Flags()
	if flags.Changed("types") {
		effective.ExtractTypes = nil
		for _, t := range o.types {
			effective.ExtractTypes = append(effective.ExtractTypes, strings.ToLower(strings.TrimSpace(t)))
		}
	}
	if flags.Changed("geo") {
		effective.EnableGeoResolver = o.geo
	}
	if flags.Changed("locale") {
		effective.Locale = strings.ToLower(strings.TrimSpace(o.locale))
	}
	if err := effective.Validate(); err != nil {
		return nil, err
	}
	return &effective, nil
}

type viewResult struct {
	report *core.Report
	err    error
}

// runView extracts every ref with at most jobs in flight and prints the
// results in argument order. It fails when any input failed.
func runView(ctx context.Context, loader *source.Loader, ex *extract.Extractor, printer *core.Printer, refs []string, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]viewResult, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			data, err := loader.Load(gctx, ref)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].report, results[i].err = ex.Extract(gctx, ref, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			printer.PrintError(refs[i], res.err)
			continue
		}
		if err := printer.PrintReport(res.report); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(refs))
	}
	return ctx.Err()
}
