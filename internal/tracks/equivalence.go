package tracks

import "fmt"

// Equivalent reports whether a and b describe the same logical track. Name and
// number are ignored because they vary per file.
func Equivalent(a, b Track) bool {
	return a.Key() == b.Key()
}

// Intersect folds per-file track lists into the tracks common to all of them.
// The first list's order is kept and duplicates within an equivalence class
// survive as long as every other list holds at least one equivalent track.
func Intersect(lists [][]Track) []Track {
	if len(lists) == 0 {
		return nil
	}
	common := append([]Track(nil), lists[0]...)
	for _, other := range lists[1:] {
		present := make(map[Key]struct{}, len(other))
		for _, t := range other {
			present[t.Key()] = struct{}{}
		}
		kept := common[:0]
		for _, t := range common {
			if _, ok := present[t.Key()]; ok {
				kept = append(kept, t)
			}
		}
		common = kept
	}
	return common
}

// BatchEntry is the unit the user selects for bulk extraction.
type BatchEntry struct {
	Label string `json:"label"`
	// Track is the representative drawn from the first file in the
	// intersection.
	Track Track `json:"track"`
	// Occurrence is the zero-based position of Track among the tracks of the
	// same equivalence class in its own file.
	Occurrence int  `json:"occurrence"`
	Selected   bool `json:"selected"`
}

// Key identifies the entry independently of which file supplied the
// representative.
func (e BatchEntry) Key() EntryKey {
	return EntryKey{Key: e.Track.Key(), Occurrence: e.Occurrence}
}

// EntryKey pairs an equivalence triple with its occurrence index.
type EntryKey struct {
	Key
	Occurrence int
}

// Label renders the summary shown next to a batch entry.
func Label(t Track) string {
	return fmt.Sprintf("%s, %s (%s)", t.Type, t.Language, t.Name)
}

// NewBatch wraps the intersection one-to-one into selected batch entries.
func NewBatch(common []Track) []BatchEntry {
	if len(common) == 0 {
		return nil
	}
	seen := make(map[Key]int, len(common))
	entries := make([]BatchEntry, 0, len(common))
	for _, t := range common {
		key := t.Key()
		entries = append(entries, BatchEntry{
			Label:      Label(t),
			Track:      t,
			Occurrence: seen[key],
			Selected:   true,
		})
		seen[key]++
	}
	return entries
}

// Occurrence returns the n-th track (zero-based) of file equivalent to key,
// or false when the file has fewer matching tracks.
func Occurrence(file File, key Key, n int) (Track, bool) {
	count := 0
	for _, t := range file.Tracks {
		if t.Key() != key {
			continue
		}
		if count == n {
			return t, true
		}
		count++
	}
	return Track{}, false
}
