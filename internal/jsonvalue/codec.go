package jsonvalue

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// MaxDepth is the deepest nesting of arrays and objects Parse accepts.
const MaxDepth = 512

// ErrTooDeep indicates the document nests deeper than MaxDepth.
var ErrTooDeep = errors.Newf("document nesting exceeds %d levels", MaxDepth)

// Parse decodes exactly one JSON value from data.
// Errors are marked with errors.ErrInvalidJSON.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidJSON)
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, errors.Mark(errors.Wrap(err, "trailing data"), errors.ErrInvalidJSON)
	}
	return v, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

func parseValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("unexpected end of input")
		}
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		if depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		switch t {
		case '[':
			return parseArray(dec, depth+1)
		case '{':
			return parseObject(dec, depth+1)
		}
	}
	return nil, errors.Newf("unexpected token %v", tok)
}

func parseArray(dec *json.Decoder, depth int) (Value, error) {
	arr := Array{}
	for dec.More() {
		v, err := parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func parseObject(dec *json.Decoder, depth int) (Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("object key must be a string, got %v", tok)
		}
		v, err := parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// Marshal encodes v as compact JSON. HTML characters are not escaped.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, "", ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but applies indentation, one member or
// element per line.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v Value, prefix, indent string) error {
	switch t := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if !json.Valid([]byte(t)) {
			return errors.Newf("invalid number literal %q", string(t))
		}
		buf.WriteString(string(t))
	case String:
		return encodeString(buf, string(t))
	case Array:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		inner := prefix + indent
		for i, el := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, inner, indent)
			if err := encode(buf, el, inner, indent); err != nil {
				return err
			}
		}
		newline(buf, prefix, indent)
		buf.WriteByte(']')
	case *Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		inner := prefix + indent
		for i, m := range t.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, inner, indent)
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			if err := encode(buf, m.Value, inner, indent); err != nil {
				return err
			}
		}
		newline(buf, prefix, indent)
		buf.WriteByte('}')
	default:
		return errors.Newf("unsupported value type %T", v)
	}
	return nil
}

func newline(buf *bytes.Buffer, prefix, indent string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "encoding string")
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
