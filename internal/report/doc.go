// Package report parses the textual track report printed by mkvinfo.
//
// The report is human-oriented and localized, so recognition is driven by a
// Markers table (one per tool locale) rather than literal strings in the
// parser. Parsing never fails: reports that announce an error, lines that
// match a marker but not its expected shape, and missing fields all degrade to
// empty results or default values.
package report
