package tracks_test

import (
	"testing"

	"mkvcleaver/internal/tracks"
)

func track(number int, typ tracks.Type, codec, lang, name string) tracks.Track {
	return tracks.Track{Number: number, Type: typ, CodecID: codec, Language: lang, Name: name}
}

func TestEquivalentIgnoresNameAndNumber(t *testing.T) {
	a := track(1, tracks.TypeAudio, "A_AAC", "eng", "Main")
	b := track(4, tracks.TypeAudio, "A_AAC", "eng", "Stereo")
	if !tracks.Equivalent(a, b) {
		t.Fatal("expected tracks with same triple to be equivalent")
	}
	c := track(1, tracks.TypeAudio, "A_AAC", "jpn", "Main")
	if tracks.Equivalent(a, c) {
		t.Fatal("expected language mismatch to break equivalence")
	}
}

func TestIntersectNoFiles(t *testing.T) {
	if got := tracks.Intersect(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestIntersectSingleFileUnchanged(t *testing.T) {
	list := []tracks.Track{
		track(0, tracks.TypeVideo, "V_MPEG4/ISO/AVC", "und", "Video Track 0"),
		track(1, tracks.TypeAudio, "A_AAC", "jpn", "Main"),
		track(2, tracks.TypeSubtitle, "S_TEXT/ASS", "eng", "Signs"),
	}
	got := tracks.Intersect([][]tracks.Track{list})
	if len(got) != len(list) {
		t.Fatalf("expected %d tracks, got %d", len(list), len(got))
	}
	for i := range list {
		if got[i] != list[i] {
			t.Fatalf("track %d changed: got %+v want %+v", i, got[i], list[i])
		}
	}
}

func TestIntersectDropsTracksMissingElsewhere(t *testing.T) {
	a := []tracks.Track{
		track(0, tracks.TypeVideo, "codecX", "en", "Video"),
		track(1, tracks.TypeAudio, "codecY", "en", "Audio A"),
	}
	b := []tracks.Track{
		track(5, tracks.TypeAudio, "codecY", "en", "Audio B"),
	}
	got := tracks.Intersect([][]tracks.Track{a, b})
	if len(got) != 1 {
		t.Fatalf("expected 1 common track, got %d", len(got))
	}
	if got[0] != a[1] {
		t.Fatalf("expected audio track from first file, got %+v", got[0])
	}
}

func TestIntersectPreservesDuplicatesAndOrder(t *testing.T) {
	a := []tracks.Track{
		track(2, tracks.TypeAudio, "A_AC3", "eng", "Main"),
		track(0, tracks.TypeVideo, "V_MPEG4/ISO/AVC", "und", "Video"),
		track(3, tracks.TypeAudio, "A_AC3", "eng", "Commentary"),
	}
	b := []tracks.Track{
		track(1, tracks.TypeAudio, "A_AC3", "eng", "Only"),
		track(0, tracks.TypeVideo, "V_MPEG4/ISO/AVC", "und", "Video"),
	}
	c := []tracks.Track{
		track(0, tracks.TypeAudio, "A_AC3", "eng", "Only"),
	}
	got := tracks.Intersect([][]tracks.Track{a, b, c})
	if len(got) != 2 {
		t.Fatalf("expected both audio tracks to survive, got %d", len(got))
	}
	if got[0].Name != "Main" || got[1].Name != "Commentary" {
		t.Fatalf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestIntersectDoesNotMutateInput(t *testing.T) {
	a := []tracks.Track{
		track(0, tracks.TypeVideo, "V", "und", "Video"),
		track(1, tracks.TypeAudio, "A", "eng", "Audio"),
	}
	b := []tracks.Track{track(1, tracks.TypeAudio, "A", "eng", "Audio")}
	_ = tracks.Intersect([][]tracks.Track{a, b})
	if a[0].Type != tracks.TypeVideo || a[1].Type != tracks.TypeAudio {
		t.Fatalf("input list was modified: %+v", a)
	}
}

func TestIntersectDissimilarFilesIsEmpty(t *testing.T) {
	a := []tracks.Track{track(0, tracks.TypeVideo, "V_MPEGH/ISO/HEVC", "und", "")}
	b := []tracks.Track{track(0, tracks.TypeVideo, "V_MPEG4/ISO/AVC", "und", "")}
	if got := tracks.Intersect([][]tracks.Track{a, b}); len(got) != 0 {
		t.Fatalf("expected empty intersection, got %v", got)
	}
}

func TestNewBatchLabelsAndOccurrences(t *testing.T) {
	common := []tracks.Track{
		track(1, tracks.TypeAudio, "A_AAC", "jpn", "Main"),
		track(2, tracks.TypeAudio, "A_AAC", "jpn", "Commentary"),
		track(3, tracks.TypeSubtitle, "S_TEXT/ASS", "eng", "Subtitle Track 3"),
	}
	batch := tracks.NewBatch(common)
	if len(batch) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(batch))
	}
	if batch[0].Label != "Audio, jpn (Main)" {
		t.Fatalf("unexpected label %q", batch[0].Label)
	}
	if batch[2].Label != "Subtitle, eng (Subtitle Track 3)" {
		t.Fatalf("unexpected label %q", batch[2].Label)
	}
	if batch[0].Occurrence != 0 || batch[1].Occurrence != 1 || batch[2].Occurrence != 0 {
		t.Fatalf("unexpected occurrences: %d %d %d", batch[0].Occurrence, batch[1].Occurrence, batch[2].Occurrence)
	}
	for i, e := range batch {
		if !e.Selected {
			t.Fatalf("entry %d should default to selected", i)
		}
	}
}

func TestOccurrenceLookup(t *testing.T) {
	file := tracks.NewFile("/media/ep2.mkv", []tracks.Track{
		track(0, tracks.TypeVideo, "V", "und", ""),
		track(4, tracks.TypeAudio, "A", "eng", "first"),
		track(7, tracks.TypeAudio, "A", "eng", "second"),
	})
	key := tracks.Key{Type: tracks.TypeAudio, CodecID: "A", Language: "eng"}
	got, ok := tracks.Occurrence(file, key, 1)
	if !ok || got.Number != 7 {
		t.Fatalf("expected second audio track number 7, got %+v ok=%v", got, ok)
	}
	if _, ok := tracks.Occurrence(file, key, 2); ok {
		t.Fatal("expected missing third occurrence")
	}
	if got.Owner != "/media/ep2.mkv" {
		t.Fatalf("expected owner stamped, got %q", got.Owner)
	}
}
