package toon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Encode renders a value tree as TOON text under cfg. Encoding is a pure,
// deterministic function of (tree, config): identical inputs yield
// byte-identical output, and a single Config may be shared across concurrent
// calls. Non-fatal layout anomalies come back as warnings.
func Encode(v *Value, cfg Config) (string, []string) {
	e := &encoder{cfg: cfg, delim: string(cfg.Delimiter.Rune())}
	e.encodeTop(v)
	return e.sb.String(), e.warnings
}

type encoder struct {
	sb       strings.Builder
	cfg      Config
	delim    string
	warnings []string
}

func (e *encoder) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// writeLine appends one output line at the given depth, two spaces per
// level. The output never ends with a newline.
func (e *encoder) writeLine(depth int, s string) {
	if e.sb.Len() > 0 {
		e.sb.WriteByte('\n')
	}
	for i := 0; i < depth; i++ {
		e.sb.WriteString("  ")
	}
	e.sb.WriteString(s)
}

func (e *encoder) encodeTop(v *Value) {
	switch v.Kind() {
	case KindObject:
		// An empty top-level object encodes to empty output.
		e.encodeObject(v, 0)
	case KindArray:
		// Top-level arrays render headerless: [N]: ... or [N]{...}:
		e.encodeArray("", v, 0)
	default:
		e.writeLine(0, e.scalarString(v))
	}
}

func (e *encoder) encodeObject(v *Value, depth int) {
	for _, f := range e.orderedFields(v) {
		e.encodeField(f.Key, f.Value, depth)
	}
}

// orderedFields returns object fields in source order, or ascending key
// order under SortKeys.
func (e *encoder) orderedFields(v *Value) []Field {
	fields := v.Fields()
	if !e.cfg.SortKeys || len(fields) <= 1 {
		return fields
	}
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return sorted
}

func (e *encoder) encodeField(key string, v *Value, depth int) {
	k := e.keyString(key)
	switch v.Kind() {
	case KindArray:
		e.encodeArray(k, v, depth)
	case KindObject:
		e.writeLine(depth, k+":")
		e.encodeObject(v, depth+1)
	default:
		e.writeLine(depth, k+": "+e.scalarString(v))
	}
}

// encodeArray picks one of three layouts: inline for all-scalar elements,
// tabular for uniform objects with scalar fields, and a list-form fallback
// for everything else. key is already rendered; it is empty at top level.
func (e *encoder) encodeArray(key string, v *Value, depth int) {
	elems := v.Elems()
	marker := "[" + strconv.Itoa(len(elems)) + e.cfg.Delimiter.marker() + "]"

	if len(elems) == 0 {
		e.writeLine(depth, key+marker+":")
		return
	}

	if allScalars(elems) {
		cells := make([]string, len(elems))
		for i, el := range elems {
			cells[i] = e.scalarString(el)
		}
		e.writeLine(depth, key+marker+": "+strings.Join(cells, e.delim))
		return
	}

	if header, ok := e.tabularHeader(elems); ok {
		e.encodeTabular(key, marker, header, elems, depth)
		return
	}

	if reason := fallbackReason(elems); reason != "" {
		e.warnf("array %s %s; encoded as a list instead of a tabular block",
			describeKey(key), reason)
	}
	e.writeLine(depth, key+marker+":")
	for _, el := range elems {
		e.encodeListItem(el, depth+1)
	}
}

// encodeTabular writes key[N]{f1,f2}: followed by one indented row per
// element, cells in header order.
func (e *encoder) encodeTabular(key, marker string, header []string, elems []*Value, depth int) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = e.keyString(h)
	}
	e.writeLine(depth, key+marker+"{"+strings.Join(cols, e.delim)+"}:")

	for _, el := range elems {
		cells := make([]string, len(header))
		for i, h := range header {
			if fv := el.Get(h); fv != nil {
				cells[i] = e.scalarString(fv)
			}
			// A missing field stays an empty cell.
		}
		e.writeLine(depth+1, strings.Join(cells, e.delim))
	}
}

// tabularHeader returns the header fields if every element is an object with
// the same non-empty key set and only scalar values. Field order follows the
// first element (or ascending order under SortKeys); rows are emitted in
// header order regardless of each element's own order.
func (e *encoder) tabularHeader(elems []*Value) ([]string, bool) {
	first := elems[0]
	if first.Kind() != KindObject || first.Len() == 0 {
		return nil, false
	}

	header := make([]string, 0, first.Len())
	for _, f := range e.orderedFields(first) {
		header = append(header, f.Key)
	}

	for _, el := range elems {
		if el.Kind() != KindObject || el.Len() != len(header) {
			return nil, false
		}
		for _, h := range header {
			fv := el.Get(h)
			if fv == nil || !fv.IsScalar() {
				return nil, false
			}
		}
	}
	return header, true
}

// encodeListItem renders one fallback list element: the element is encoded
// standalone, its first line gets a "- " marker, and continuation lines are
// indented one extra level so they align under the marker.
func (e *encoder) encodeListItem(v *Value, depth int) {
	sub := &encoder{cfg: e.cfg, delim: e.delim}
	sub.encodeTop(v)
	e.warnings = append(e.warnings, sub.warnings...)

	if sub.sb.Len() == 0 {
		e.writeLine(depth, "-")
		return
	}
	lines := strings.Split(sub.sb.String(), "\n")
	e.writeLine(depth, "- "+lines[0])
	for _, line := range lines[1:] {
		e.writeLine(depth+1, line)
	}
}

func allScalars(elems []*Value) bool {
	for _, el := range elems {
		if !el.IsScalar() {
			return false
		}
	}
	return true
}

// fallbackReason classifies why an array could not be tabularized. Arrays of
// arrays take the list form naturally and produce no warning.
func fallbackReason(elems []*Value) string {
	allObjects := true
	allArrays := true
	for _, el := range elems {
		if el.Kind() != KindObject {
			allObjects = false
		}
		if el.Kind() != KindArray {
			allArrays = false
		}
	}
	switch {
	case allArrays:
		return ""
	case !allObjects:
		return "mixes scalar and container elements"
	default:
		return "has objects with divergent key sets or nested values"
	}
}

func describeKey(key string) string {
	if key == "" {
		return "at the top level"
	}
	return fmt.Sprintf("%q", key)
}

// ============================================================
// Scalar Rendering
// ============================================================

func (e *encoder) scalarString(v *Value) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return formatFloat(v.floatVal)
	case KindStr:
		return e.stringValue(v.strVal)
	default:
		return ""
	}
}

// formatFloat keeps floats visually distinct from ints: shortest round-trip
// form, with ".0" appended when it would otherwise read as an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// stringValue renders a string scalar, quoting only when the bare form would
// be ambiguous: empty, leading/trailing space, or containing the active
// delimiter, a quote, or a line break.
func (e *encoder) stringValue(s string) string {
	if e.needsQuoting(s) {
		return e.quote(s)
	}
	if e.cfg.EnsureASCII {
		return escapeNonASCII(s)
	}
	return s
}

// keyString renders an object key or tabular column name. Keys additionally
// quote structural characters so the line grammar stays unambiguous.
func (e *encoder) keyString(k string) string {
	if e.needsQuoting(k) || strings.ContainsAny(k, ":[]{}") {
		return e.quote(k)
	}
	if e.cfg.EnsureASCII {
		return escapeNonASCII(k)
	}
	return k
}

func (e *encoder) needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	if strings.ContainsAny(s, "\"\n\r") {
		return true
	}
	return strings.ContainsRune(s, e.cfg.Delimiter.Rune())
}

// quote returns a double-quoted string with backslash escapes for quotes,
// backslashes, control characters, and (under EnsureASCII) anything outside
// printable ASCII.
func (e *encoder) quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case r < 0x20:
				writeUEscape(&b, r)
			case e.cfg.EnsureASCII && r > 0x7e:
				writeUEscape(&b, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// escapeNonASCII rewrites runes above printable ASCII as \uXXXX escapes in
// an otherwise bare string.
func escapeNonASCII(s string) string {
	i := strings.IndexFunc(s, func(r rune) bool { return r > 0x7e })
	if i < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString(s[:i])
	for _, r := range s[i:] {
		if r > 0x7e {
			writeUEscape(&b, r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeUEscape writes \uXXXX, using a UTF-16 surrogate pair for runes above
// the BMP.
func writeUEscape(b *strings.Builder, r rune) {
	if r > 0xffff {
		hi, lo := utf16.EncodeRune(r)
		fmt.Fprintf(b, `\u%04x\u%04x`, hi, lo)
		return
	}
	fmt.Fprintf(b, `\u%04x`, r)
}
