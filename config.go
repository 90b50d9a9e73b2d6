package toon

import (
	"fmt"
	"strings"
)

// Delimiter selects the separator used for inline arrays, tabular headers,
// and tabular rows. It is also the delimiter the CSV converter parses with.
type Delimiter uint8

const (
	DelimiterComma Delimiter = iota
	DelimiterTab
	DelimiterPipe
)

// String returns the delimiter name.
func (d Delimiter) String() string {
	switch d {
	case DelimiterComma:
		return "comma"
	case DelimiterTab:
		return "tab"
	case DelimiterPipe:
		return "pipe"
	default:
		return "unknown"
	}
}

// Rune returns the separator character.
func (d Delimiter) Rune() rune {
	switch d {
	case DelimiterTab:
		return '\t'
	case DelimiterPipe:
		return '|'
	default:
		return ','
	}
}

// marker returns the symbol shown after the length in array brackets.
// Comma is the default delimiter and shows no symbol; tab shows a space so
// the marker stays legible: [3] vs [3 ] vs [3|].
func (d Delimiter) marker() string {
	switch d {
	case DelimiterTab:
		return " "
	case DelimiterPipe:
		return "|"
	default:
		return ""
	}
}

// ParseDelimiter maps a delimiter name to its value.
func ParseDelimiter(s string) (Delimiter, error) {
	switch s {
	case "comma", ",":
		return DelimiterComma, nil
	case "tab", "\t":
		return DelimiterTab, nil
	case "pipe", "|":
		return DelimiterPipe, nil
	default:
		return DelimiterComma, fmt.Errorf("toon: unknown delimiter %q", s)
	}
}

// Config controls encoding. It is an immutable value: construct once per
// conversion and never mutate during encoding, so a single Config is safe to
// share across concurrent conversions.
type Config struct {
	// Delimiter separates inline array values and tabular fields/cells.
	Delimiter Delimiter

	// SortKeys renders object keys in ascending lexical order instead of
	// source order.
	SortKeys bool

	// EnsureASCII escapes every character outside printable ASCII using
	// \uXXXX escapes (surrogate pairs above the BMP).
	EnsureASCII bool
}

// DefaultConfig returns the default configuration: comma delimiter, source
// key order, Unicode passed through.
func DefaultConfig() Config {
	return Config{Delimiter: DelimiterComma}
}

// Format identifies a source text format.
type Format uint8

const (
	FormatAuto Format = iota
	FormatJSON
	FormatXML
	FormatCSV
	FormatHTML
	FormatUnknown
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSON:
		return "JSON"
	case FormatXML:
		return "XML"
	case FormatCSV:
		return "CSV"
	case FormatHTML:
		return "HTML"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name (case-insensitive) to its value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	default:
		return FormatUnknown, fmt.Errorf("toon: unknown format %q", s)
	}
}
