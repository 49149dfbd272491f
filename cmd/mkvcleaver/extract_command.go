package main

import (
	"github.com/spf13/cobra"

	"mkvcleaver/internal/tracks"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var opts planOptions
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the selected batch tracks from every included file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []tracks.File
			var batch []tracks.BatchEntry
			err := ctx.withWorkset(cmd, false, func(ws *tracks.WorkingSet) error {
				files = ws.Files()
				batch = ws.Batch()
				return nil
			})
			if err != nil {
				return err
			}
			return planAndExtract(cmd, ctx, files, batch, opts)
		},
	}
	opts.register(cmd)
	return cmd
}
