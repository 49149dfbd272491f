// Package extract turns the working set's selections into mkvextract jobs.
//
// Planning is pure: Build takes the included files and selected batch entries
// and returns one Job per file with every output path resolved. Running the
// jobs is the workflow package's concern.
package extract
