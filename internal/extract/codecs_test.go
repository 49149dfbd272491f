package extract_test

import (
	"testing"

	"mkvcleaver/internal/extract"
)

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"V_MPEG4/ISO/AVC": ".h264",
		"A_AAC":           ".aac",
		"A_OPUS":          ".opus",
		"A_AC3":           ".ac3",
		"A_DTS":           ".dts",
		"A_MP3":           ".mp3",
		"S_TEXT/ASS":      ".ass",
		"S_TEXT/SSA":      ".ssa",
		"S_TEXT/SRT":      ".srt",
		"X_UNKNOWN_CODEC": ".unknown",
		"":                ".unknown",
		"a_ac3":           ".unknown",
	}
	for codec, want := range tests {
		if got := extract.ExtensionFor(codec); got != want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", codec, got, want)
		}
	}
}

func TestNewCodecsOverrides(t *testing.T) {
	codecs := extract.NewCodecs(map[string]string{
		"V_MPEGH/ISO/HEVC": "h265",
		"A_AAC":            ".m4a",
		"  ":               ".skip",
		"S_HDMV/PGS":       "",
	})
	if got := codecs.ExtensionFor("V_MPEGH/ISO/HEVC"); got != ".h265" {
		t.Fatalf("hevc = %q", got)
	}
	if got := codecs.ExtensionFor("A_AAC"); got != ".m4a" {
		t.Fatalf("aac override = %q", got)
	}
	if got := codecs.ExtensionFor("S_HDMV/PGS"); got != extract.FallbackExtension {
		t.Fatalf("empty override should be ignored, got %q", got)
	}
	if got := extract.ExtensionFor("A_AAC"); got != ".aac" {
		t.Fatalf("overrides leaked into the built-in table: %q", got)
	}
}
