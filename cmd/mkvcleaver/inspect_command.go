package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var raw bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <path>...",
		Short: "Show the tracks of Matroska files without adding them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(cmd, ctx, args)
			if err != nil {
				return err
			}
			runCtx, stop := interruptContext(cmd)
			defer stop()

			out := cmd.OutOrStdout()
			if raw {
				client, err := ctx.toolnixClient()
				if err != nil {
					return err
				}
				parser, err := ctx.reportParser()
				if err != nil {
					return err
				}
				for _, path := range paths {
					text, err := client.Inspect(runCtx, path)
					if err != nil {
						return err
					}
					fmt.Fprint(out, text)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s markers, failed=%s\n",
						filepath.Base(path), parser.Markers(text).Profile, yesNo(parser.Failed(text)))
				}
				return nil
			}

			result, err := inspectFiles(runCtx, cmd, ctx, paths)
			if err != nil {
				return err
			}
			if asJSON {
				if err := writeJSON(cmd, result.Files); err != nil {
					return err
				}
			} else {
				p := newPalette(out)
				codecs := ctx.configValue().CodecTable()
				for _, file := range result.Files {
					fmt.Fprintln(out, p.header.Sprint(filepath.Base(file.Path)))
					fmt.Fprintln(out, renderTable(trackHeaders, trackRows(file.Tracks, codecs), trackAligns))
				}
			}
			if n := len(result.Failures); n > 0 {
				return fmt.Errorf("%d of %d files could not be inspected", n, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the unparsed mkvinfo report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print parsed tracks as JSON")
	return cmd
}
