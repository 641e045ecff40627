package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type field struct {
	key   string
	value json.RawMessage
}

// document is a JSON object that remembers its key order, so a rewrite of
// the schedule file only changes the values that were set.
type document struct {
	fields []field
}

func (d *document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("schedule file must hold a JSON object")
	}

	d.fields = d.fields[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		d.set(key, value)
	}
	_, err = dec.Token()
	return err
}

func (d document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *document) has(key string) bool {
	for _, f := range d.fields {
		if f.key == key {
			return true
		}
	}
	return false
}

// set replaces the value of key in place, or appends key when it is new.
// A repeated key keeps its first position and its last value, matching
// encoding/json's last-one-wins decoding.
func (d *document) set(key string, value json.RawMessage) {
	for i := range d.fields {
		if d.fields[i].key == key {
			d.fields[i].value = value
			return
		}
	}
	d.fields = append(d.fields, field{key: key, value: value})
}
