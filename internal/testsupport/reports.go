package testsupport

import (
	"fmt"
	"strings"
)

// ReportTrack describes one track of a synthetic mkvinfo report.
type ReportTrack struct {
	// ID is the mkvextract track id; the report's own track number is ID+1.
	ID       int
	Type     string
	CodecID  string
	Language string
	Name     string
}

// EnglishReport renders tracks the way mkvinfo prints them under LC_ALL=C,
// followed by a tags section.
func EnglishReport(tracks ...ReportTrack) string {
	var b strings.Builder
	b.WriteString("+ EBML head\n|+ Segment: size 1004\n|+ Tracks\n")
	for _, t := range tracks {
		b.WriteString("| + Track\n")
		fmt.Fprintf(&b, "|  + Track number: %d (track ID for mkvmerge & mkvextract: %d)\n", t.ID+1, t.ID)
		if t.Type != "" {
			fmt.Fprintf(&b, "|  + Track type: %s\n", t.Type)
		}
		if t.CodecID != "" {
			fmt.Fprintf(&b, "|  + Codec ID: %s\n", t.CodecID)
		}
		if t.Language != "" {
			fmt.Fprintf(&b, "|  + Language: %s\n", t.Language)
		}
		if t.Name != "" {
			fmt.Fprintf(&b, "|  + Name: %s\n", t.Name)
		}
	}
	b.WriteString("|+ Tags\n| + Tag\n|  + Name: ENCODER\n")
	return b.String()
}

// EpisodeReport is a typical three-track episode: HEVC video, Japanese AAC
// audio and English ASS subtitles.
func EpisodeReport() string {
	return EnglishReport(
		ReportTrack{ID: 0, Type: "video", CodecID: "V_MPEGH/ISO/HEVC", Language: "und"},
		ReportTrack{ID: 1, Type: "audio", CodecID: "A_AAC", Language: "jpn"},
		ReportTrack{ID: 2, Type: "subtitles", CodecID: "S_TEXT/ASS", Language: "eng", Name: "Full"},
	)
}
