package tracks_test

import (
	"testing"

	"mkvcleaver/internal/tracks"
)

func sampleFiles() (tracks.File, tracks.File) {
	first := tracks.NewFile("/media/ep1.mkv", []tracks.Track{
		track(0, tracks.TypeVideo, "V_MPEG4/ISO/AVC", "und", "Video Track 0"),
		track(1, tracks.TypeAudio, "A_AAC", "jpn", "Main"),
		track(2, tracks.TypeSubtitle, "S_TEXT/ASS", "eng", "Full"),
	})
	second := tracks.NewFile("/media/ep2.mkv", []tracks.Track{
		track(0, tracks.TypeVideo, "V_MPEG4/ISO/AVC", "und", "Video Track 0"),
		track(1, tracks.TypeAudio, "A_AAC", "jpn", "Main"),
	})
	return first, second
}

func TestWorkingSetAddRebuildsBatch(t *testing.T) {
	first, second := sampleFiles()
	ws := tracks.NewWorkingSet()
	var changes []tracks.Change
	ws.Observe(func(c tracks.Change) { changes = append(changes, c) })

	ws.Add(first, second)
	if ws.Len() != 2 {
		t.Fatalf("expected 2 files, got %d", ws.Len())
	}
	batch := ws.Batch()
	if len(batch) != 2 {
		t.Fatalf("expected 2 common tracks, got %d", len(batch))
	}
	if batch[0].Track.Owner != first.Path {
		t.Fatalf("expected representative from first file, got %q", batch[0].Track.Owner)
	}
	if len(changes) != 3 || changes[2].Kind != tracks.ChangeBatchRebuilt {
		t.Fatalf("unexpected change stream: %+v", changes)
	}
}

func TestWorkingSetExcludeWidensBatch(t *testing.T) {
	first, second := sampleFiles()
	ws := tracks.NewWorkingSet()
	ws.Add(first, second)

	if !ws.SetIncluded(second.Path, false) {
		t.Fatal("expected file to be found")
	}
	if got := len(ws.Batch()); got != 3 {
		t.Fatalf("expected batch of single included file (3), got %d", got)
	}
	if got := len(ws.Included()); got != 1 {
		t.Fatalf("expected 1 included file, got %d", got)
	}
}

func TestWorkingSetKeepsDeselectionAcrossRebuild(t *testing.T) {
	first, second := sampleFiles()
	ws := tracks.NewWorkingSet()
	ws.Add(first)
	if !ws.SetBatchSelected(1, false) {
		t.Fatal("expected valid index")
	}
	ws.Add(second)
	batch := ws.Batch()
	if len(batch) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(batch))
	}
	if !batch[0].Selected || batch[1].Selected {
		t.Fatalf("expected audio entry to stay deselected: %+v", batch)
	}
	if got := len(ws.SelectedBatch()); got != 1 {
		t.Fatalf("expected 1 selected entry, got %d", got)
	}
}

func TestWorkingSetReAddReplacesInPlace(t *testing.T) {
	first, second := sampleFiles()
	ws := tracks.NewWorkingSet()
	ws.Add(first, second)
	ws.SetIncluded(first.Path, false)

	refreshed := tracks.NewFile(first.Path, first.Tracks[:1])
	ws.Add(refreshed)

	files := ws.Files()
	if len(files) != 2 || files[0].Path != first.Path {
		t.Fatalf("expected file to keep its position: %+v", files)
	}
	if len(files[0].Tracks) != 1 {
		t.Fatalf("expected replaced tracks, got %d", len(files[0].Tracks))
	}
	if files[0].Included {
		t.Fatal("expected inclusion flag to survive re-add")
	}
}

func TestWorkingSetRemove(t *testing.T) {
	first, second := sampleFiles()
	ws := tracks.NewWorkingSet()
	ws.Add(first, second)
	if !ws.Remove(second.Path) {
		t.Fatal("expected removal to succeed")
	}
	if ws.Remove(second.Path) {
		t.Fatal("expected second removal to report missing file")
	}
	if got := len(ws.Batch()); got != 3 {
		t.Fatalf("expected batch of remaining file, got %d", got)
	}
	ws.Clear()
	if ws.Len() != 0 || len(ws.Batch()) != 0 {
		t.Fatal("expected empty working set after clear")
	}
}

func TestWorkingSetInvalidBatchIndex(t *testing.T) {
	ws := tracks.NewWorkingSet()
	if ws.SetBatchSelected(0, false) {
		t.Fatal("expected out-of-range index to be rejected")
	}
}
