// Package language maps the ISO 639-2 codes mkvinfo prints to display names
// and matches user language filters against them.
//
// Matroska stores bibliographic codes such as "ger" or "fre" alongside the
// terminology forms, so both spellings, two-letter codes and English names
// all compare equal here.
package language
