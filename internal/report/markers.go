package report

import (
	"fmt"
	"regexp"
	"strings"

	"mkvcleaver/internal/tracks"
)

// Markers lists the literal substrings that give report lines their role.
type Markers struct {
	// Profile names the locale the markers were written for.
	Profile string
	// Errors holds substrings that mark the whole report as a failed
	// inspection.
	Errors []string
	// TrackStart opens a new track record.
	TrackStart string
	// TrackNumber must capture two integers; the second is the extraction id.
	TrackNumber *regexp.Regexp
	// Tags opens the tags section, which runs to the end of the report.
	Tags      string
	TrackType string
	// TypeValues maps localized type words to track types. They are tried in
	// video, audio, subtitle order.
	TypeValues map[tracks.Type]string
	CodecID    string
	Language   string
	Name       string
}

const (
	ProfileAuto      = "auto"
	ProfileUkrainian = "uk"
	ProfileEnglish   = "en"
)

// Both error markers are recognized regardless of the report locale.
const (
	localizedError = "Помилка"
	englishError   = "Error"
)

var typeOrder = []tracks.Type{tracks.TypeVideo, tracks.TypeAudio, tracks.TypeSubtitle}

// Ukrainian returns the marker set for mkvinfo running under a Ukrainian
// locale.
func Ukrainian() Markers {
	return Markers{
		Profile:     ProfileUkrainian,
		Errors:      []string{localizedError, englishError},
		TrackStart:  "Номер доріжки:",
		TrackNumber: regexp.MustCompile(`Номер доріжки:\s*(\d+).*?mkvextract:\s*(\d+)`),
		Tags:        "|+ Теги",
		TrackType:   "Тип доріжки:",
		TypeValues: map[tracks.Type]string{
			tracks.TypeVideo:    "відео",
			tracks.TypeAudio:    "аудіо",
			tracks.TypeSubtitle: "субтитри",
		},
		CodecID:  "ID кодека:",
		Language: "Мова:",
		Name:     "Назва:",
	}
}

// English returns the marker set for mkvinfo running under an English (or C)
// locale.
func English() Markers {
	return Markers{
		Profile:     ProfileEnglish,
		Errors:      []string{localizedError, englishError},
		TrackStart:  "Track number:",
		TrackNumber: regexp.MustCompile(`Track number:\s*(\d+).*?mkvextract:\s*(\d+)`),
		Tags:        "|+ Tags",
		TrackType:   "Track type:",
		TypeValues: map[tracks.Type]string{
			tracks.TypeVideo:    "video",
			tracks.TypeAudio:    "audio",
			tracks.TypeSubtitle: "subtitles",
		},
		CodecID:  "Codec ID:",
		Language: "Language:",
		Name:     "Name:",
	}
}

// Profiles returns the built-in marker sets in detection order.
func Profiles() []Markers {
	return []Markers{Ukrainian(), English()}
}

// Profile looks up a built-in marker set by name.
func Profile(name string) (Markers, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProfileUkrainian:
		return Ukrainian(), nil
	case ProfileEnglish:
		return English(), nil
	default:
		return Markers{}, fmt.Errorf("unknown report profile %q", name)
	}
}

// Overrides replaces individual markers of a profile. Empty fields keep the
// profile value.
type Overrides struct {
	Errors      []string
	TrackStart  string
	TrackNumber string
	Tags        string
	TrackType   string
	Video       string
	Audio       string
	Subtitle    string
	CodecID     string
	Language    string
	Name        string
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return len(o.Errors) == 0 && o.TrackStart == "" && o.TrackNumber == "" &&
		o.Tags == "" && o.TrackType == "" && o.Video == "" && o.Audio == "" &&
		o.Subtitle == "" && o.CodecID == "" && o.Language == "" && o.Name == ""
}

// Apply returns a copy of m with the non-empty overrides applied.
func (m Markers) Apply(o Overrides) (Markers, error) {
	out := m
	out.TypeValues = make(map[tracks.Type]string, len(m.TypeValues))
	for k, v := range m.TypeValues {
		out.TypeValues[k] = v
	}
	if len(o.Errors) > 0 {
		out.Errors = append([]string(nil), o.Errors...)
	}
	if o.TrackNumber != "" {
		re, err := regexp.Compile(o.TrackNumber)
		if err != nil {
			return Markers{}, fmt.Errorf("track number pattern: %w", err)
		}
		out.TrackNumber = re
	}
	setIf(&out.TrackStart, o.TrackStart)
	setIf(&out.Tags, o.Tags)
	setIf(&out.TrackType, o.TrackType)
	setIf(&out.CodecID, o.CodecID)
	setIf(&out.Language, o.Language)
	setIf(&out.Name, o.Name)
	if o.Video != "" {
		out.TypeValues[tracks.TypeVideo] = o.Video
	}
	if o.Audio != "" {
		out.TypeValues[tracks.TypeAudio] = o.Audio
	}
	if o.Subtitle != "" {
		out.TypeValues[tracks.TypeSubtitle] = o.Subtitle
	}
	if err := out.Validate(); err != nil {
		return Markers{}, err
	}
	return out, nil
}

// Validate reports markers the parser cannot work with.
func (m Markers) Validate() error {
	if strings.TrimSpace(m.TrackStart) == "" {
		return fmt.Errorf("report profile %q: track start marker is empty", m.Profile)
	}
	if m.TrackNumber == nil {
		return fmt.Errorf("report profile %q: track number pattern missing", m.Profile)
	}
	if m.TrackNumber.NumSubexp() < 2 {
		return fmt.Errorf("report profile %q: track number pattern must capture two integers", m.Profile)
	}
	return nil
}

// Detect picks the marker set whose track-start marker occurs in report,
// falling back to the first candidate.
func Detect(report string, candidates []Markers) Markers {
	if len(candidates) == 0 {
		return Ukrainian()
	}
	for _, m := range candidates {
		if m.TrackStart != "" && strings.Contains(report, m.TrackStart) {
			return m
		}
	}
	return candidates[0]
}

func setIf(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
