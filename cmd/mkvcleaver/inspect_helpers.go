package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mkvcleaver/internal/discovery"
	"mkvcleaver/internal/extract"
	"mkvcleaver/internal/language"
	"mkvcleaver/internal/logging"
	"mkvcleaver/internal/tracks"
	"mkvcleaver/internal/workflow"
)

// expandArgs resolves path arguments and warns about skipped entries.
func expandArgs(cmd *cobra.Command, ctx *commandContext, args []string) ([]string, error) {
	paths, skipped, err := discovery.Expand(args)
	p := newPalette(cmd.ErrOrStderr())
	for _, path := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is not a .mkv file\n", p.warn.Sprint("skipped"), path)
		logging.WarnWithContext(ctx.loggerFor(cmd), "argument skipped", "argument_skipped",
			logging.String("path", path),
			logging.String(logging.FieldImpact, "file not added"),
		)
	}
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// inspectFiles runs mkvinfo over paths and echoes each outcome to stderr.
// A canceled inspection returns context.Canceled and no files.
func inspectFiles(runCtx context.Context, cmd *cobra.Command, ctx *commandContext, paths []string) (workflow.InspectionResult, error) {
	client, err := ctx.toolnixClient()
	if err != nil {
		return workflow.InspectionResult{}, err
	}
	parser, err := ctx.reportParser()
	if err != nil {
		return workflow.InspectionResult{}, err
	}

	inspector := workflow.NewInspector(client, parser, ctx.loggerFor(cmd))
	run := inspector.Start(runCtx, paths)
	out := cmd.ErrOrStderr()
	p := newPalette(out)
	for ev := range run.Events() {
		switch ev.Kind {
		case workflow.EventFileInspected:
			fmt.Fprintf(out, "[%d/%d] %s %s (%d tracks)\n", ev.Index+1, ev.Total, p.ok.Sprint("inspected"), filepath.Base(ev.Path), len(ev.File.Tracks))
		case workflow.EventFileFailed:
			fmt.Fprintf(out, "[%d/%d] %s %s: %v\n", ev.Index+1, ev.Total, p.fail.Sprint("failed"), filepath.Base(ev.Path), ev.Err)
		}
	}
	result := run.Wait()
	if result.Canceled {
		return workflow.InspectionResult{}, context.Canceled
	}
	return result, nil
}

func trackRows(list []tracks.Track, codecs extract.Codecs) [][]string {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			strconv.Itoa(t.Number),
			string(t.Type),
			t.CodecID,
			fmt.Sprintf("%s (%s)", t.Language, language.DisplayName(t.Language)),
			t.Name,
			codecs.ExtensionFor(t.CodecID),
		})
	}
	return rows
}

var trackHeaders = []string{"ID", "Type", "Codec", "Language", "Name", "Ext"}
var trackAligns = []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
