package toon

import (
	"encoding/xml"
	"io"
	"strings"
)

// attrPrefix is the reserved key namespace for XML attributes, keeping them
// distinct from child elements of the same name.
const attrPrefix = "@"

// textKey holds character data of an element that also has attributes or
// child elements.
const textKey = "#text"

// decodeXML parses XML text into a value tree. Element children become
// object fields keyed by tag name; repeated sibling tags collapse into an
// array; attributes live under the "@" namespace; text-only elements become
// scalars. The root element's tag becomes the single top-level key.
func decodeXML(text string) (*Value, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, parseErrorAt(FormatXML, text, len(text), "no root element")
		}
		if err != nil {
			return nil, xmlParseError(text, dec, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			// Skip the declaration, comments, and leading whitespace.
			continue
		}

		val, err := parseXMLElement(dec, start)
		if err != nil {
			return nil, xmlParseError(text, dec, err)
		}
		return Object(FieldOf(start.Name.Local, val)), nil
	}
}

// parseXMLElement consumes tokens through the matching end tag and builds
// the element's value.
func parseXMLElement(dec *xml.Decoder, start xml.StartElement) (*Value, error) {
	obj := Object()
	for _, attr := range start.Attr {
		obj.Set(attrPrefix+attr.Name.Local, Str(attr.Value))
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			addXMLChild(obj, t.Name.Local, child)

		case xml.CharData:
			text.WriteString(string(t))

		case xml.EndElement:
			return finishXMLElement(obj, strings.TrimSpace(text.String())), nil
		}
	}
}

// addXMLChild appends a child under its tag name, collapsing repeated
// siblings into an array.
func addXMLChild(obj *Value, name string, child *Value) {
	existing := obj.Get(name)
	if existing == nil {
		obj.Set(name, child)
		return
	}
	if existing.Kind() == KindArray {
		existing.Append(child)
		return
	}
	obj.Set(name, Array(existing, child))
}

// finishXMLElement decides the final shape of a parsed element: scalar for
// text-only elements, object otherwise, null for empty ones.
func finishXMLElement(obj *Value, text string) *Value {
	if obj.Len() == 0 {
		if text == "" {
			return Null()
		}
		return Str(text)
	}
	if text != "" {
		obj.Set(textKey, Str(text))
	}
	return obj
}

func xmlParseError(text string, dec *xml.Decoder, err error) error {
	if syn, ok := err.(*xml.SyntaxError); ok {
		// The decoder tracks lines, not offsets; keep the line it reports.
		return &ParseError{
			Format:  FormatXML,
			Pos:     Position{Line: syn.Line, Column: 1, Offset: int(dec.InputOffset())},
			Message: syn.Msg,
		}
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return parseErrorAt(FormatXML, text, len(text), "unexpected end of XML input")
	}
	return parseErrorAt(FormatXML, text, int(dec.InputOffset()), err.Error())
}
