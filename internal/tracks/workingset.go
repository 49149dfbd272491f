package tracks

// ChangeKind names a working set mutation.
type ChangeKind string

const (
	ChangeFileAdded     ChangeKind = "file_added"
	ChangeFileReplaced  ChangeKind = "file_replaced"
	ChangeFileRemoved   ChangeKind = "file_removed"
	ChangeFileIncluded  ChangeKind = "file_included"
	ChangeBatchSelected ChangeKind = "batch_selected"
	ChangeBatchRebuilt  ChangeKind = "batch_rebuilt"
)

// Change describes a single mutation. Path is set for file changes, Index for
// batch changes.
type Change struct {
	Kind     ChangeKind
	Path     string
	Index    int
	Selected bool
}

// WorkingSet owns the loaded files and the batch derived from them. It is
// not safe for concurrent use; the orchestration layer mutates it after each
// background operation completes.
type WorkingSet struct {
	files     []File
	batch     []BatchEntry
	observers []func(Change)
}

// NewWorkingSet returns an empty working set.
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{}
}

// Restore rebuilds a working set from persisted files and batch entries
// without recomputing the batch.
func Restore(files []File, batch []BatchEntry) *WorkingSet {
	return &WorkingSet{
		files: append([]File(nil), files...),
		batch: append([]BatchEntry(nil), batch...),
	}
}

// Observe registers fn to receive every subsequent change.
func (w *WorkingSet) Observe(fn func(Change)) {
	if fn != nil {
		w.observers = append(w.observers, fn)
	}
}

func (w *WorkingSet) emit(change Change) {
	for _, fn := range w.observers {
		fn(change)
	}
}

// Files returns a copy of the files in insertion order.
func (w *WorkingSet) Files() []File {
	return append([]File(nil), w.files...)
}

// Len returns the number of files.
func (w *WorkingSet) Len() int {
	return len(w.files)
}

// Lookup returns the file with the given path.
func (w *WorkingSet) Lookup(path string) (File, bool) {
	if idx := w.indexOf(path); idx >= 0 {
		return w.files[idx], true
	}
	return File{}, false
}

// Included returns the files currently included in the batch.
func (w *WorkingSet) Included() []File {
	out := make([]File, 0, len(w.files))
	for _, f := range w.files {
		if f.Included {
			out = append(out, f)
		}
	}
	return out
}

// Batch returns a copy of the batch entries.
func (w *WorkingSet) Batch() []BatchEntry {
	return append([]BatchEntry(nil), w.batch...)
}

// SelectedBatch returns the batch entries the user left selected.
func (w *WorkingSet) SelectedBatch() []BatchEntry {
	out := make([]BatchEntry, 0, len(w.batch))
	for _, e := range w.batch {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// Add appends files to the working set. A file whose path is already present
// has its tracks replaced in place and keeps its inclusion flag.
func (w *WorkingSet) Add(files ...File) {
	if len(files) == 0 {
		return
	}
	for _, f := range files {
		if idx := w.indexOf(f.Path); idx >= 0 {
			f.Included = w.files[idx].Included
			w.files[idx] = f
			w.emit(Change{Kind: ChangeFileReplaced, Path: f.Path})
			continue
		}
		w.files = append(w.files, f)
		w.emit(Change{Kind: ChangeFileAdded, Path: f.Path})
	}
	w.rebuild()
}

// Remove drops the file with the given path. It reports whether the file was
// present.
func (w *WorkingSet) Remove(path string) bool {
	idx := w.indexOf(path)
	if idx < 0 {
		return false
	}
	w.files = append(w.files[:idx], w.files[idx+1:]...)
	w.emit(Change{Kind: ChangeFileRemoved, Path: path})
	w.rebuild()
	return true
}

// Clear removes every file.
func (w *WorkingSet) Clear() {
	for _, f := range w.files {
		w.emit(Change{Kind: ChangeFileRemoved, Path: f.Path})
	}
	w.files = nil
	w.rebuild()
}

// SetIncluded toggles whether a file takes part in the batch. It reports
// whether the file was present.
func (w *WorkingSet) SetIncluded(path string, included bool) bool {
	idx := w.indexOf(path)
	if idx < 0 {
		return false
	}
	if w.files[idx].Included == included {
		return true
	}
	w.files[idx].Included = included
	w.emit(Change{Kind: ChangeFileIncluded, Path: path, Selected: included})
	w.rebuild()
	return true
}

// SetBatchSelected toggles the batch entry at index. It reports whether the
// index was valid.
func (w *WorkingSet) SetBatchSelected(index int, selected bool) bool {
	if index < 0 || index >= len(w.batch) {
		return false
	}
	if w.batch[index].Selected == selected {
		return true
	}
	w.batch[index].Selected = selected
	w.emit(Change{Kind: ChangeBatchSelected, Index: index, Selected: selected})
	return true
}

// rebuild recomputes the batch over the included files, carrying over
// deselections for entries that survive.
func (w *WorkingSet) rebuild() {
	deselected := make(map[EntryKey]struct{})
	for _, e := range w.batch {
		if !e.Selected {
			deselected[e.Key()] = struct{}{}
		}
	}

	included := w.Included()
	lists := make([][]Track, 0, len(included))
	for _, f := range included {
		lists = append(lists, f.Tracks)
	}
	batch := NewBatch(Intersect(lists))
	for i := range batch {
		if _, ok := deselected[batch[i].Key()]; ok {
			batch[i].Selected = false
		}
	}
	w.batch = batch
	w.emit(Change{Kind: ChangeBatchRebuilt, Index: len(batch)})
}

func (w *WorkingSet) indexOf(path string) int {
	for i, f := range w.files {
		if f.Path == path {
			return i
		}
	}
	return -1
}
