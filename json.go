package toon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// decodeJSON parses JSON text into a value tree, preserving object key order
// and the integer-vs-float distinction. encoding/json's map decoding loses
// key order, so this walks the decoder's token stream instead.
func decodeJSON(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := parseJSONValue(dec)
	if err != nil {
		return nil, jsonParseError(text, dec, err)
	}

	// Anything after the first value is trailing garbage.
	if _, err := dec.Token(); err != io.EOF {
		return nil, parseErrorAt(FormatJSON, text, int(dec.InputOffset()), "trailing content after JSON value")
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return jsonTokenValue(dec, tok)
}

func jsonTokenValue(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseJSONObject(dec)
		case '[':
			return parseJSONArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())

	case string:
		return Str(t), nil

	case json.Number:
		return jsonNumberValue(t), nil

	case bool:
		return Bool(t), nil

	case nil:
		return Null(), nil

	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseJSONObject(dec *json.Decoder) (*Value, error) {
	obj := Object()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}

		val, err := parseJSONValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseJSONArray(dec *json.Decoder) (*Value, error) {
	arr := Array()
	for dec.More() {
		val, err := parseJSONValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Append(val)
	}
	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// jsonNumberValue keeps integers as ints; anything with a fraction or
// exponent (or out of int64 range) becomes a float.
func jsonNumberValue(n json.Number) *Value {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i)
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Str(s)
	}
	return Float(f)
}

// jsonParseError maps decoder errors to a ParseError carrying the offending
// offset and line.
func jsonParseError(text string, dec *json.Decoder, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return parseErrorAt(FormatJSON, text, int(syn.Offset), syn.Error())
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return parseErrorAt(FormatJSON, text, len(text), "unexpected end of JSON input")
	}
	return parseErrorAt(FormatJSON, text, int(dec.InputOffset()), err.Error())
}
