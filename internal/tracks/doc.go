// Package tracks holds the container and track model shared by the report
// parser, the extraction planner and the CLI.
//
// It defines when two tracks from different files describe the same logical
// stream, folds per-file track lists into the batch of tracks common to every
// file, and owns the working set whose files and batch entries carry the
// user's selection state. Everything here is plain data; persistence lives in
// the workset package and process execution in services/mkvtoolnix.
package tracks
