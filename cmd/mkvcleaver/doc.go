// Package main hosts the mkvcleaver CLI entrypoint and command graph.
//
// The Cobra command tree keeps a persistent working set of Matroska files in
// the workspace database, shows the tracks every included file has in
// common, and extracts the selected ones with mkvextract. Configuration,
// logging, and mkvtoolnix discovery are resolved once in commandContext so
// subcommands only deal with user experience.
//
// Add behaviour to the internal packages first and surface it here through
// dedicated commands or flags.
package main
