// Package workset persists the working set between CLI invocations.
//
// State lives in a SQLite database (workset.db) inside the workspace
// directory: the ordered container files, their parsed tracks, and the batch
// with its selections. Commands that modify the set hold an exclusive flock
// on workset.lock for the whole load-modify-save cycle so two mkvcleaver
// processes cannot interleave writes.
package workset
