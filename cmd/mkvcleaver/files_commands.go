package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mkvcleaver/internal/config"
	"mkvcleaver/internal/tracks"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Inspect Matroska files or directories and add them to the working set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(cmd, ctx, args)
			if err != nil {
				return err
			}
			runCtx, stop := interruptContext(cmd)
			defer stop()

			result, err := inspectFiles(runCtx, cmd, ctx, paths)
			if err != nil {
				return err
			}
			if len(result.Files) == 0 {
				return errors.New("no files could be inspected; nothing added")
			}

			return ctx.withWorkset(cmd, true, func(ws *tracks.WorkingSet) error {
				ws.Add(result.Files...)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %d file(s); %d in working set, %d track(s) in common\n",
					len(result.Files), ws.Len(), len(ws.Batch()))
				if n := len(result.Failures); n > 0 {
					fmt.Fprintf(out, "%d file(s) skipped because inspection failed\n", n)
				}
				return nil
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index|path>...",
		Short: "Remove files from the working set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkset(cmd, true, func(ws *tracks.WorkingSet) error {
				paths, err := resolveFileRefs(ws, args)
				if err != nil {
					return err
				}
				for _, path := range paths {
					ws.Remove(path)
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", path)
				}
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every file from the working set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkset(cmd, true, func(ws *tracks.WorkingSet) error {
				n := ws.Len()
				ws.Clear()
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d file(s)\n", n)
				return nil
			})
		},
	}
}

func newIncludeCommand(ctx *commandContext, include bool) *cobra.Command {
	use, short, verb := "include", "Include files in the batch", "Included"
	if !include {
		use, short, verb = "exclude", "Exclude files from the batch without removing them", "Excluded"
	}
	return &cobra.Command{
		Use:   use + " <index|path>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkset(cmd, true, func(ws *tracks.WorkingSet) error {
				paths, err := resolveFileRefs(ws, args)
				if err != nil {
					return err
				}
				for _, path := range paths {
					ws.SetIncluded(path, include)
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, path)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d track(s) in common\n", len(ws.Batch()))
				return nil
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the files in the working set",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkset(cmd, false, func(ws *tracks.WorkingSet) error {
				files := ws.Files()
				if asJSON {
					return writeJSON(cmd, files)
				}
				out := cmd.OutOrStdout()
				if len(files) == 0 {
					fmt.Fprintln(out, "Working set is empty")
					return nil
				}
				p := newPalette(out)
				rows := make([][]string, 0, len(files))
				for i, f := range files {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						checkMark(p, f.Included),
						f.Name,
						strconv.Itoa(len(f.Tracks)),
						f.Path,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "In", "File", "Tracks", "Path"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print files as JSON")
	return cmd
}

// resolveFileRefs maps 1-based indexes or paths to working set paths.
func resolveFileRefs(ws *tracks.WorkingSet, refs []string) ([]string, error) {
	files := ws.Files()
	paths := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if n, err := strconv.Atoi(ref); err == nil {
			if n < 1 || n > len(files) {
				return nil, fmt.Errorf("file %d out of range (working set has %d)", n, len(files))
			}
			paths = append(paths, files[n-1].Path)
			continue
		}
		path, err := config.ExpandPath(ref)
		if err != nil {
			return nil, err
		}
		if _, ok := ws.Lookup(path); !ok {
			return nil, fmt.Errorf("%s is not in the working set", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
