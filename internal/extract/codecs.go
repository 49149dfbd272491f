package extract

import (
	"maps"
	"strings"
)

// FallbackExtension is used for codec ids missing from the table.
const FallbackExtension = ".unknown"

var defaultExtensions = map[string]string{
	"V_MPEG4/ISO/AVC": ".h264",
	"A_AAC":           ".aac",
	"A_OPUS":          ".opus",
	"A_AC3":           ".ac3",
	"A_DTS":           ".dts",
	"A_MP3":           ".mp3",
	"S_TEXT/ASS":      ".ass",
	"S_TEXT/SSA":      ".ssa",
	"S_TEXT/SRT":      ".srt",
}

// DefaultExtensions returns a copy of the built-in codec table.
func DefaultExtensions() map[string]string {
	return maps.Clone(defaultExtensions)
}

// Codecs maps codec ids to output file extensions.
type Codecs struct {
	table map[string]string
}

// NewCodecs layers extra entries over the built-in table. Extensions missing
// their leading dot get one.
func NewCodecs(extra map[string]string) Codecs {
	table := DefaultExtensions()
	for id, ext := range extra {
		id = strings.TrimSpace(id)
		ext = strings.TrimSpace(ext)
		if id == "" || ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		table[id] = ext
	}
	return Codecs{table: table}
}

// ExtensionFor resolves codecID, falling back to FallbackExtension.
func (c Codecs) ExtensionFor(codecID string) string {
	table := c.table
	if table == nil {
		table = defaultExtensions
	}
	if ext, ok := table[codecID]; ok {
		return ext
	}
	return FallbackExtension
}

// ExtensionFor resolves codecID against the built-in table.
func ExtensionFor(codecID string) string {
	return Codecs{}.ExtensionFor(codecID)
}
