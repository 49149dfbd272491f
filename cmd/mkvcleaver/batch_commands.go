package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"

	"mkvcleaver/internal/language"
	"mkvcleaver/internal/tracks"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Show the tracks every included file has in common",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkset(cmd, false, func(ws *tracks.WorkingSet) error {
				batch := ws.Batch()
				if asJSON {
					return writeJSON(cmd, batch)
				}
				out := cmd.OutOrStdout()
				if len(batch) == 0 {
					fmt.Fprintf(out, "No tracks in common across %d included file(s)\n", len(ws.Included()))
					return nil
				}
				p := newPalette(out)
				codecs := ctx.configValue().CodecTable()
				rows := make([][]string, 0, len(batch))
				for i, entry := range batch {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						checkMark(p, entry.Selected),
						entry.Label,
						strconv.Itoa(entry.Track.Number),
						entry.Track.CodecID,
						language.DisplayName(entry.Track.Language),
						codecs.ExtensionFor(entry.Track.CodecID),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Sel", "Track", "ID", "Codec", "Language", "Ext"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "%d of %d selected across %d included file(s)\n", len(ws.SelectedBatch()), len(batch), len(ws.Included()))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print batch entries as JSON")
	return cmd
}

func newSelectCommand(ctx *commandContext, selected bool) *cobra.Command {
	var all bool
	var typeFilter string
	var langFilter string

	use, short := "select", "Select batch entries for extraction"
	if !selected {
		use, short = "deselect", "Deselect batch entries"
	}
	cmd := &cobra.Command{
		Use:   use + " [index...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all && typeFilter == "" && langFilter == "" {
				return errors.New("pass entry numbers, --all, --type, or --lang")
			}
			filter, err := newEntryFilter(typeFilter, langFilter)
			if err != nil {
				return err
			}
			return ctx.withWorkset(cmd, true, func(ws *tracks.WorkingSet) error {
				batch := ws.Batch()
				indexes, err := entryIndexes(batch, args, all, filter)
				if err != nil {
					return err
				}
				for _, idx := range indexes {
					ws.SetBatchSelected(idx, selected)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d entries selected\n", len(ws.SelectedBatch()), len(batch))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Apply to every entry")
	cmd.Flags().StringVar(&typeFilter, "type", "", "Apply to entries of this track type (video, audio, subtitles)")
	cmd.Flags().StringVar(&langFilter, "lang", "", "Apply to entries in this language (code or English name)")
	return cmd
}

// entryFilter matches batch entries by type and language. Zero values match
// everything.
type entryFilter struct {
	kind tracks.Type
	lang string
}

func (f entryFilter) active() bool {
	return f.kind != "" || f.lang != ""
}

func (f entryFilter) matches(t tracks.Track) bool {
	if f.kind != "" && t.Type != f.kind {
		return false
	}
	return language.Matches(t.Language, f.lang)
}

func newEntryFilter(kind, lang string) (entryFilter, error) {
	f := entryFilter{lang: strings.TrimSpace(lang)}
	if kind = strings.TrimSpace(kind); kind != "" {
		t, err := parseTypeFilter(kind)
		if err != nil {
			return entryFilter{}, err
		}
		f.kind = t
	}
	return f, nil
}

// parseTypeFilter accepts "audio", "Audio", "subtitles" and similar spellings.
func parseTypeFilter(value string) (tracks.Type, error) {
	word := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "s")
	t := tracks.ParseType(cases.Title(xlanguage.Und).String(word))
	if t == tracks.TypeUnknown {
		return "", fmt.Errorf("unknown track type %q (want video, audio, or subtitles)", value)
	}
	return t, nil
}

func entryIndexes(batch []tracks.BatchEntry, args []string, all bool, filter entryFilter) ([]int, error) {
	seen := make(map[int]struct{})
	var out []int
	add := func(i int) {
		if _, ok := seen[i]; ok {
			return
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	for _, arg := range args {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("invalid entry number %q", arg)
		}
		if n < 1 || n > len(batch) {
			return nil, fmt.Errorf("entry %d out of range (batch has %d)", n, len(batch))
		}
		add(n - 1)
	}
	if all || filter.active() {
		for i, entry := range batch {
			if filter.matches(entry.Track) {
				add(i)
			}
		}
	}
	return out, nil
}
