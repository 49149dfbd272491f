package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mkvcleaver/internal/extract"
	"mkvcleaver/internal/logging"
	"mkvcleaver/internal/services"
	"mkvcleaver/internal/tracks"
	"mkvcleaver/internal/workflow"
)

// planOptions carries the extraction flags shared by extract and run.
type planOptions struct {
	outputDir string
	numbering string
	dryRun    bool
}

func (o *planOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "o", "", "Write tracks here instead of next to each source file")
	cmd.Flags().StringVar(&o.numbering, "numbering", "", "Track numbering: representative or per_file (default from config)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the mkvextract commands without running them")
}

func (o planOptions) resolve(ctx *commandContext) (extract.Options, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return extract.Options{}, err
	}
	numbering := cfg.Numbering()
	if strings.TrimSpace(o.numbering) != "" {
		if numbering, err = extract.ParseNumbering(o.numbering); err != nil {
			return extract.Options{}, err
		}
	}
	dir := cfg.Paths.OutputDir
	if strings.TrimSpace(o.outputDir) != "" {
		abs, err := filepath.Abs(o.outputDir)
		if err != nil {
			return extract.Options{}, fmt.Errorf("resolve output dir: %w", err)
		}
		dir = abs
	}
	return extract.Options{OutputDir: dir, Codecs: cfg.CodecTable(), Numbering: numbering}, nil
}

// planAndExtract builds the plan for files and batch, reports planning
// notices, and runs or prints the jobs.
func planAndExtract(cmd *cobra.Command, ctx *commandContext, files []tracks.File, batch []tracks.BatchEntry, opts planOptions) error {
	extractOpts, err := opts.resolve(ctx)
	if err != nil {
		return err
	}
	selected := 0
	for _, entry := range batch {
		if entry.Selected {
			selected++
		}
	}
	if selected == 0 {
		return errors.New("no tracks selected")
	}

	plan := extract.Build(files, batch, extractOpts)
	logger := ctx.loggerFor(cmd)
	errOut := cmd.ErrOrStderr()
	p := newPalette(errOut)
	for _, n := range plan.Mismatches {
		fmt.Fprintf(errOut, "%s %s: %s (%s)\n", p.warn.Sprint("warning"), filepath.Base(n.File), n.Message, n.Label)
		logging.WarnWithContext(logger, "track number points at a different track", "numbering_mismatch",
			logging.String(logging.FieldFile, n.File),
			logging.String("entry", n.Label),
			logging.String("detail", n.Message),
			logging.String(logging.FieldImpact, "output may contain the wrong track; consider --numbering per_file"),
		)
	}
	for _, n := range plan.Skipped {
		fmt.Fprintf(errOut, "%s %s: %s (%s)\n", p.warn.Sprint("skipped"), filepath.Base(n.File), n.Message, n.Label)
		logging.WarnWithContext(logger, "track missing from file", "track_skipped",
			logging.String(logging.FieldFile, n.File),
			logging.String("entry", n.Label),
			logging.String(logging.FieldImpact, "track not extracted for this file"),
		)
	}
	if len(plan.Jobs) == 0 {
		return errors.New("nothing to extract")
	}

	cfg := ctx.configValue()
	out := cmd.OutOrStdout()
	if opts.dryRun {
		for _, job := range plan.Jobs {
			fmt.Fprintln(out, job.CommandLine(cfg.MkvextractBinary()))
		}
		return nil
	}

	if extractOpts.OutputDir != "" {
		if err := os.MkdirAll(extractOpts.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	client, err := ctx.toolnixClient()
	if err != nil {
		return err
	}
	runCtx, stop := interruptContext(cmd)
	defer stop()

	extractor := workflow.NewExtractor(client, logger,
		workflow.WithProgressPrefix(cfg.Extract.ProgressPrefix),
		workflow.WithDisplayBinary(cfg.MkvextractBinary()),
	)
	summary := followRun(cmd, extractor.Start(runCtx, plan.Jobs))
	printSummary(cmd, summary)

	switch {
	case summary.Canceled:
		return context.Canceled
	case summary.Failed() > 0:
		return fmt.Errorf("%d of %d extraction job(s) failed", summary.Failed(), len(summary.Results))
	}
	return nil
}

// followRun renders run events until the run ends. On a terminal a progress
// bar tracks the current job; otherwise one line per job is printed.
func followRun(cmd *cobra.Command, run *workflow.Run) workflow.RunSummary {
	errOut := cmd.ErrOrStderr()
	interactive := shouldColorize(errOut)
	p := newPalette(errOut)

	var bar *progressbar.ProgressBar
	finishBar := func() {
		if bar != nil {
			_ = bar.Finish()
			bar = nil
		}
	}
	for ev := range run.Events() {
		switch ev.Kind {
		case workflow.EventJobStarted:
			label := fmt.Sprintf("[%d/%d] %s", ev.Index+1, ev.Total, filepath.Base(ev.Path))
			if !interactive {
				fmt.Fprintf(errOut, "%s extracting %d track(s)\n", label, len(ev.Job.Outputs))
				continue
			}
			bar = progressbar.NewOptions64(
				100,
				progressbar.OptionSetDescription(label),
				progressbar.OptionSetWidth(40),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWriter(errOut),
				progressbar.OptionSetPredictTime(false),
				progressbar.OptionShowDescriptionAtLineEnd(),
				progressbar.OptionSetElapsedTime(false),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "=",
					SaucerHead:    ">",
					SaucerPadding: " ",
					BarStart:      "Extracting [",
					BarEnd:        "]",
				}),
			)
		case workflow.EventJobProgress:
			if bar != nil {
				_ = bar.Set64(int64(ev.Percent))
			}
		case workflow.EventJobFinished:
			finishBar()
			status := p.ok.Sprint(string(ev.Status))
			if ev.Status != services.StatusSucceeded {
				status = p.fail.Sprint(string(ev.Status))
			}
			fmt.Fprintf(errOut, "[%d/%d] %s %s\n", ev.Index+1, ev.Total, filepath.Base(ev.Path), status)
		}
	}
	finishBar()
	return run.Wait()
}

func printSummary(cmd *cobra.Command, summary workflow.RunSummary) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		percent := "-"
		if r.Percent >= 0 {
			percent = strconv.Itoa(r.Percent) + "%"
		}
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		rows = append(rows, []string{
			r.Job.Name,
			strconv.Itoa(len(r.Job.Outputs)),
			string(r.Status),
			percent,
			r.Duration.Round(100 * time.Millisecond).String(),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Tracks", "Status", "Progress", "Time", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "%d succeeded, %d failed (run %s)\n", summary.Succeeded(), summary.Failed(), summary.RunID)
}
