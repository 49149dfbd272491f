package extract

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"mkvcleaver/internal/tracks"
)

// Numbering selects where an output's track number comes from.
type Numbering string

const (
	// NumberingRepresentative applies the batch entry's representative
	// number to every file.
	NumberingRepresentative Numbering = "representative"
	// NumberingPerFile looks up each file's own track of the entry's
	// equivalence class.
	NumberingPerFile Numbering = "per_file"
)

// ParseNumbering validates a numbering mode name. Empty means representative.
func ParseNumbering(value string) (Numbering, error) {
	switch Numbering(strings.ToLower(strings.TrimSpace(value))) {
	case "", NumberingRepresentative:
		return NumberingRepresentative, nil
	case NumberingPerFile:
		return NumberingPerFile, nil
	default:
		return "", fmt.Errorf("unknown numbering mode %q (want %s or %s)", value, NumberingRepresentative, NumberingPerFile)
	}
}

// Options tune planning.
type Options struct {
	// OutputDir overrides each file's own directory when set.
	OutputDir string
	Codecs    Codecs
	Numbering Numbering
}

// Output is one track written by a job.
type Output struct {
	Label string
	// Track carries the number passed to mkvextract.
	Track tracks.Track
	Path  string
}

// Spec renders the "<id>:<path>" argument for this output.
func (o Output) Spec() string {
	return strconv.Itoa(o.Track.Number) + ":" + o.Path
}

// Job is one mkvextract invocation covering every selected track of a file.
type Job struct {
	Source  string
	Name    string
	Outputs []Output
}

// Args returns the mkvextract argument vector.
func (j Job) Args() []string {
	args := make([]string, 0, len(j.Outputs)+2)
	args = append(args, "tracks", j.Source)
	for _, out := range j.Outputs {
		args = append(args, out.Spec())
	}
	return args
}

// CommandLine renders the invocation for logs and dry runs.
func (j Job) CommandLine(binary string) string {
	parts := make([]string, 0, len(j.Outputs)+3)
	parts = append(parts, quote(binary), "tracks", quote(j.Source))
	for _, out := range j.Outputs {
		parts = append(parts, strconv.Itoa(out.Track.Number)+":"+quote(out.Path))
	}
	return strings.Join(parts, " ")
}

// Notice records a planning decision the caller should surface.
type Notice struct {
	File    string
	Label   string
	Message string
}

// Plan is the result of Build.
type Plan struct {
	Jobs []Job
	// Skipped lists outputs dropped because a file lacks the track.
	Skipped []Notice
	// Mismatches lists representative numbers that point at a
	// non-equivalent track in some file.
	Mismatches []Notice
}

// Outputs counts the outputs across all jobs.
func (p Plan) Outputs() int {
	total := 0
	for _, job := range p.Jobs {
		total += len(job.Outputs)
	}
	return total
}

// OutputPath computes "{dir}/{base}_Track{n}_{type}_{lang}{ext}".
func OutputPath(dir string, file tracks.File, t tracks.Track, ext string) string {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Dir(file.Path)
	}
	name := fmt.Sprintf("%s_Track%d_%s_%s%s", file.BaseName(), t.Number, t.Type, t.Language, ext)
	return filepath.Join(dir, name)
}

// Build plans one job per included file over the selected batch entries.
// Files that end up with no outputs get no job.
func Build(files []tracks.File, batch []tracks.BatchEntry, opts Options) Plan {
	var plan Plan
	selected := make([]tracks.BatchEntry, 0, len(batch))
	for _, entry := range batch {
		if entry.Selected {
			selected = append(selected, entry)
		}
	}
	if len(selected) == 0 {
		return plan
	}

	for _, file := range files {
		if !file.Included {
			continue
		}
		job := Job{Source: file.Path, Name: file.Name}
		for _, entry := range selected {
			t, ok := resolve(file, entry, opts.Numbering, &plan)
			if !ok {
				continue
			}
			ext := opts.Codecs.ExtensionFor(t.CodecID)
			job.Outputs = append(job.Outputs, Output{
				Label: entry.Label,
				Track: t,
				Path:  OutputPath(opts.OutputDir, file, t, ext),
			})
		}
		if len(job.Outputs) > 0 {
			plan.Jobs = append(plan.Jobs, job)
		}
	}
	return plan
}

func resolve(file tracks.File, entry tracks.BatchEntry, numbering Numbering, plan *Plan) (tracks.Track, bool) {
	rep := entry.Track
	if numbering == NumberingPerFile {
		own, ok := tracks.Occurrence(file, rep.Key(), entry.Occurrence)
		if !ok {
			plan.Skipped = append(plan.Skipped, Notice{
				File:    file.Path,
				Label:   entry.Label,
				Message: fmt.Sprintf("no %s track #%d", rep.Key(), entry.Occurrence+1),
			})
			return tracks.Track{}, false
		}
		// Type, codec and language match by construction; only the number
		// and name are the file's own.
		return own, true
	}

	if file.Path != rep.Owner {
		if !hasEquivalentAt(file, rep) {
			plan.Mismatches = append(plan.Mismatches, Notice{
				File:    file.Path,
				Label:   entry.Label,
				Message: fmt.Sprintf("track %d is not %s in this file", rep.Number, rep.Key()),
			})
		}
	}
	return rep, true
}

func hasEquivalentAt(file tracks.File, rep tracks.Track) bool {
	for _, t := range file.Tracks {
		if t.Number == rep.Number {
			return tracks.Equivalent(t, rep)
		}
	}
	return false
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\$`") {
		return s
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`").Replace(s) + `"`
}
