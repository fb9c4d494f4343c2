package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/source"
)

func newSniffCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sniff <file|url|-> [...]",
		Short: "Show the detected media type of each input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := ctx.loader()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(args))
			failed := 0
			for _, ref := range args {
				t, size, err := sniff(cmd.Context(), loader, ref)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", ref, err)
					continue
				}
				rows = append(rows, []string{
					ref,
					t.String(),
					string(t.Category()),
					humanize.IBytes(uint64(size)),
				})
			}

			if len(rows) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Input", "Type", "Category", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs failed", failed, len(args))
			}
			return nil
		},
	}
}

// sniff classifies ref. Local files are classified from their leading
// bytes only; stdin and URLs are read in full.
func sniff(ctx context.Context, loader *source.Loader, ref string) (core.MediaType, int64, error) {
	if ref == source.Stdin || source.IsURL(ref) {
		data, err := loader.Load(ctx, ref)
		if err != nil {
			return core.TypeUnknown, 0, err
		}
		return core.Classify(data), int64(len(data)), nil
	}

	info, err := os.Stat(ref)
	if err != nil {
		return core.TypeUnknown, 0, fmt.Errorf("open %s: %w", ref, err)
	}
	if info.IsDir() {
		return core.TypeUnknown, 0, fmt.Errorf("open %s: is a directory", ref)
	}
	t, err := core.DetectFile(ref)
	if err != nil {
		return core.TypeUnknown, 0, fmt.Errorf("open %s: %w", ref, err)
	}
	return t, info.Size(), nil
}
