package report

import (
	"strconv"
	"strings"

	"mkvcleaver/internal/tracks"
)

// Parser turns mkvinfo reports into track records.
type Parser struct {
	candidates []Markers
	errors     []string
}

// NewParser returns a parser that uses the given marker sets. With more than
// one candidate the set is detected per report.
func NewParser(candidates ...Markers) *Parser {
	if len(candidates) == 0 {
		candidates = Profiles()
	}
	var errs []string
	seen := make(map[string]struct{})
	for _, m := range candidates {
		for _, marker := range m.Errors {
			if _, ok := seen[marker]; ok || marker == "" {
				continue
			}
			seen[marker] = struct{}{}
			errs = append(errs, marker)
		}
	}
	return &Parser{candidates: candidates, errors: errs}
}

// Failed reports whether the report announces a failed inspection. The error
// markers of every candidate count, whichever set is detected.
func (p *Parser) Failed(report string) bool {
	return containsAny(report, p.errors)
}

// Markers returns the marker set the parser would use for report.
func (p *Parser) Markers(report string) Markers {
	return Detect(report, p.candidates)
}

// Parse extracts the tracks described by report in report order.
func (p *Parser) Parse(report string) []tracks.Track {
	if p.Failed(report) {
		return []tracks.Track{}
	}
	return ParseWith(report, Detect(report, p.candidates))
}

// Parse extracts tracks using the built-in profiles.
func Parse(report string) []tracks.Track {
	return NewParser().Parse(report)
}

// ParseWith extracts tracks using a single marker set.
func ParseWith(report string, m Markers) []tracks.Track {
	if strings.TrimSpace(report) == "" || failed(report, m) {
		return []tracks.Track{}
	}

	result := make([]tracks.Track, 0, 8)
	var current *tracks.Track
	flush := func() {
		if current == nil {
			return
		}
		if current.Name == "" {
			current.Name = tracks.DefaultName(*current)
		}
		result = append(result, *current)
		current = nil
	}

	for _, raw := range strings.Split(report, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m.Tags != "" && strings.Contains(line, m.Tags) {
			break
		}
		switch {
		case strings.Contains(line, m.TrackStart):
			flush()
			t := tracks.NewTrack()
			t.Number = trackNumber(line, m)
			current = &t
		case current == nil:
			continue
		case m.TrackType != "" && strings.Contains(line, m.TrackType):
			current.Type = trackType(line, m)
		case m.CodecID != "" && strings.Contains(line, m.CodecID):
			if v, ok := valueAfter(line, m.CodecID); ok {
				current.CodecID = v
			}
		case m.Language != "" && strings.Contains(line, m.Language):
			if v, ok := valueAfter(line, m.Language); ok {
				current.Language = v
			}
		case m.Name != "" && strings.Contains(line, m.Name):
			if v, ok := valueAfter(line, m.Name); ok {
				current.Name = v
			}
		}
	}
	flush()
	return result
}

func failed(report string, m Markers) bool {
	return containsAny(report, m.Errors)
}

func containsAny(report string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(report, marker) {
			return true
		}
	}
	return false
}

// trackNumber returns the second captured integer, or 0 when the line does not
// have the expected shape.
func trackNumber(line string, m Markers) int {
	if m.TrackNumber == nil {
		return 0
	}
	match := m.TrackNumber.FindStringSubmatch(line)
	if len(match) < 3 {
		return 0
	}
	n, err := strconv.Atoi(match[2])
	if err != nil {
		return 0
	}
	return n
}

func trackType(line string, m Markers) tracks.Type {
	for _, typ := range typeOrder {
		word := m.TypeValues[typ]
		if word != "" && strings.Contains(line, word) {
			return typ
		}
	}
	return tracks.TypeUnknown
}

func valueAfter(line, marker string) (string, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	value := strings.TrimSpace(line[idx+len(marker):])
	if value == "" {
		return "", false
	}
	return value, true
}
