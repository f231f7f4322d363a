// Package record models one JSON object of a dataset file with its key order
// intact, and applies translation passes to it.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is an ordered mapping from field name to raw JSON value. Values are
// kept as they were read; only derived fields are ever written.
type Record struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// New returns an empty Record.
func New() *Record {
	return &Record{fields: orderedmap.New[string, json.RawMessage]()}
}

// Len returns the number of fields.
func (r *Record) Len() int { return r.fields.Len() }

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.fields.Len())
	for p := r.fields.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Get returns the raw value of key.
func (r *Record) Get(key string) (json.RawMessage, bool) {
	return r.fields.Get(key)
}

// GetString returns the value of key when it is a JSON string.
func (r *Record) GetString(key string) (string, bool) {
	raw, ok := r.fields.Get(key)
	if !ok || !isJSONString(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set stores a raw value. New keys go after existing ones; existing keys keep
// their position.
func (r *Record) Set(key string, raw json.RawMessage) {
	r.fields.Set(key, raw)
}

// SetString stores s as a JSON string.
func (r *Record) SetString(key, s string) {
	r.fields.Set(key, encodeString(s))
}

// MarshalJSON writes the fields in order without HTML escaping.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for p := r.fields.Oldest(); p != nil; p = p.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(encodeString(p.Key))
		buf.WriteByte(':')
		if len(p.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(p.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. A repeated key keeps
// its first position and its last value.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record is not a JSON object")
	}

	fields := orderedmap.New[string, json.RawMessage]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if isJSONString(raw) {
			// Re-encode so that \uXXXX escapes are written back as characters.
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			raw = encodeString(s)
		}
		fields.Set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after record")
	}
	r.fields = fields
	return nil
}

// ParseList decodes a file body that must be a JSON array of objects.
func ParseList(data []byte) ([]*Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("top level is not a JSON array: %w", err)
	}
	if items == nil {
		return nil, fmt.Errorf("top level is not a JSON array")
	}
	records := make([]*Record, 0, len(items))
	for i, item := range items {
		rec := New()
		if err := rec.UnmarshalJSON(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// MarshalList encodes records as an indented JSON array with a trailing
// newline. Non-ASCII text is written literally.
func MarshalList(records []*Record, indent int) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			compact.WriteByte(',')
		}
		b, err := rec.MarshalJSON()
		if err != nil {
			return nil, err
		}
		compact.Write(b)
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", strings.Repeat(" ", indent)); err != nil {
		return nil, fmt.Errorf("failed to indent output: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '"'
}
