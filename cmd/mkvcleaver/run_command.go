package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mkvcleaver/internal/tracks"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts planOptions
	var typeFilter string
	var langFilter string

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Inspect files and extract their common tracks in one step",
		Long: "run inspects the given files or directories, keeps the tracks they all share,\n" +
			"optionally narrows them by type and language, and extracts them. The saved\n" +
			"working set is not touched.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := newEntryFilter(typeFilter, langFilter)
			if err != nil {
				return err
			}
			paths, err := expandArgs(cmd, ctx, args)
			if err != nil {
				return err
			}
			runCtx, stop := interruptContext(cmd)
			result, err := inspectFiles(runCtx, cmd, ctx, paths)
			stop()
			if err != nil {
				return err
			}
			if len(result.Files) == 0 {
				return errors.New("no files could be inspected")
			}

			ws := tracks.NewWorkingSet()
			ws.Add(result.Files...)
			if filter.active() {
				for i, entry := range ws.Batch() {
					ws.SetBatchSelected(i, filter.matches(entry.Track))
				}
			}
			if len(ws.Batch()) == 0 {
				return fmt.Errorf("the %d inspected file(s) have no tracks in common", len(result.Files))
			}
			return planAndExtract(cmd, ctx, ws.Files(), ws.Batch(), opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&typeFilter, "type", "", "Only extract tracks of this type (video, audio, subtitles)")
	cmd.Flags().StringVar(&langFilter, "lang", "", "Only extract tracks in this language (code or English name)")
	return cmd
}
