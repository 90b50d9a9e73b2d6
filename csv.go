package toon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// decodeCSV parses delimited-tabular text into an array of objects. The
// first record is the header; later records become objects keyed by header
// field names. Rows whose field count disagrees with the header produce a
// warning: missing fields become null, extra fields are dropped.
func decodeCSV(text string, cfg Config) (*Value, []string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = cfg.Delimiter.Rune()
	r.FieldsPerRecord = -1 // ragged rows reported as warnings, not errors

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, csvParseError(text, err)
	}
	if len(records) == 0 {
		return nil, nil, &ParseError{Format: FormatCSV, Message: "empty input: no header row"}
	}

	header := records[0]
	var warns []string

	rows := Array()
	for i, record := range records[1:] {
		if len(record) != len(header) {
			warns = append(warns, fmt.Sprintf(
				"CSV row %d has %d fields, expected %d; missing fields are null, extra fields dropped",
				i+2, len(record), len(header)))
		}

		row := Object()
		for j, name := range header {
			if j < len(record) {
				row.Set(name, Str(record[j]))
			} else {
				row.Set(name, Null())
			}
		}
		rows.Append(row)
	}
	return rows, warns, nil
}

func csvParseError(text string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &ParseError{
			Format:  FormatCSV,
			Pos:     Position{Line: perr.Line, Column: perr.Column},
			Message: perr.Err.Error(),
		}
	}
	return &ParseError{Format: FormatCSV, Message: err.Error()}
}
