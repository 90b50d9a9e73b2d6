package toon

import (
	"errors"
	"fmt"
)

// ErrFormatUndetermined is returned when auto-detection cannot determine the
// input format and the caller declared none.
var ErrFormatUndetermined = errors.New("toon: input format could not be determined")

// Position is a source location in the input text.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError reports that a converter could not build a value tree from the
// input text. It is fatal to the conversion that produced it; batch siblings
// are unaffected.
type ParseError struct {
	Format  Format
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("toon: %s parse error at %s: %s", e.Format, e.Pos, e.Message)
	}
	return fmt.Sprintf("toon: %s parse error: %s", e.Format, e.Message)
}

// parseErrorAt builds a ParseError with line/column derived from a byte
// offset into the input text.
func parseErrorAt(format Format, text string, offset int, msg string) *ParseError {
	return &ParseError{Format: format, Pos: positionAt(text, offset), Message: msg}
}

// positionAt converts a byte offset to a 1-based line/column position.
func positionAt(text string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col, Offset: offset}
}
