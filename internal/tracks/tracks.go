package tracks

import (
	"fmt"
	"path/filepath"
)

// Type classifies a track as reported by the inspection tool.
type Type string

const (
	TypeUnknown  Type = "Unknown"
	TypeVideo    Type = "Video"
	TypeAudio    Type = "Audio"
	TypeSubtitle Type = "Subtitle"
)

// ParseType maps a case-sensitive type label back to a Type. Unrecognized
// labels yield TypeUnknown.
func ParseType(value string) Type {
	switch Type(value) {
	case TypeVideo, TypeAudio, TypeSubtitle:
		return Type(value)
	default:
		return TypeUnknown
	}
}

const (
	// DefaultCodecID is assigned to tracks whose report carries no codec line.
	DefaultCodecID = "Unknown"
	// DefaultLanguage is assigned to tracks whose report carries no language line.
	DefaultLanguage = "und"
)

// Track captures one stream described by an inspection report.
type Track struct {
	// Number is the id the extraction tool expects, not the report's own
	// track index.
	Number   int    `json:"number"`
	Type     Type   `json:"type"`
	CodecID  string `json:"codec_id"`
	Language string `json:"language"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	// Owner is the absolute path of the file this track was parsed from.
	Owner string `json:"owner,omitempty"`
}

// NewTrack returns a track populated with the parser defaults.
func NewTrack() Track {
	return Track{
		Type:     TypeUnknown,
		CodecID:  DefaultCodecID,
		Language: DefaultLanguage,
	}
}

// DefaultName is the synthesized name for tracks the report leaves unnamed.
func DefaultName(t Track) string {
	return fmt.Sprintf("%s Track %d", t.Type, t.Number)
}

// Key returns the equivalence triple used to match tracks across files.
func (t Track) Key() Key {
	return Key{Type: t.Type, CodecID: t.CodecID, Language: t.Language}
}

// Key is the (type, codec, language) triple two equivalent tracks share.
type Key struct {
	Type     Type
	CodecID  string
	Language string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Type, k.CodecID, k.Language)
}

// File is a container file in the working set.
type File struct {
	Path     string  `json:"path"`
	Name     string  `json:"name"`
	Tracks   []Track `json:"tracks"`
	Included bool    `json:"included"`
}

// NewFile builds an included File for path and stamps each track with the
// owning path.
func NewFile(path string, parsed []Track) File {
	owned := make([]Track, len(parsed))
	for i, t := range parsed {
		t.Owner = path
		owned[i] = t
	}
	return File{
		Path:     path,
		Name:     filepath.Base(path),
		Tracks:   owned,
		Included: true,
	}
}

// BaseName returns the file name without its extension.
func (f File) BaseName() string {
	name := f.Name
	if name == "" {
		name = filepath.Base(f.Path)
	}
	return name[:len(name)-len(filepath.Ext(name))]
}
