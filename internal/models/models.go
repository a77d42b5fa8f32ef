package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type DatasetKind string

const (
	KindEmergencyRequests DatasetKind = "emergency_requests"
	KindCustomers         DatasetKind = "customers"
	KindTechnicians       DatasetKind = "technicians"
	KindPartners          DatasetKind = "partners"
	KindAdmins            DatasetKind = "admins"
	KindSystemAlerts      DatasetKind = "system_alerts"
)

var knownKinds = []DatasetKind{
	KindEmergencyRequests,
	KindCustomers,
	KindTechnicians,
	KindPartners,
	KindAdmins,
	KindSystemAlerts,
}

func KnownKinds() []DatasetKind {
	out := make([]DatasetKind, len(knownKinds))
	copy(out, knownKinds)
	return out
}

func (k DatasetKind) Known() bool {
	for _, known := range knownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Field is one key/value pair of a Record. Value holds the decoded JSON value:
// nil, bool, json.Number, string, []any, map[string]any or a nested Record.
type Field struct {
	Key   string
	Value any
}

// Record is a JSON object that remembers the order its keys were written in.
// Nested objects decode as Record too, arrays as []any.
type Record struct {
	fields []Field
	index  map[string]int
}

func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

func (r *Record) Set(key string, value any) {
	if r.index == nil {
		r.index = map[string]int{}
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

func (r Record) Get(key string) (any, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Lookup follows a dotted path ("user.name") through nested records.
func (r Record) Lookup(path string) (any, bool) {
	cur := r
	parts := strings.Split(path, ".")
	for i, p := range parts {
		v, ok := cur.Get(p)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		switch next := v.(type) {
		case Record:
			cur = next
		case map[string]any:
			cur = recordFromMap(next)
		default:
			return nil, false
		}
	}
	return nil, false
}

func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

func (r Record) Len() int {
	return len(r.fields)
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("record: expected JSON object")
	}
	rec, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// decodeObject reads the members of an object whose '{' was already consumed.
func decodeObject(dec *json.Decoder) (Record, error) {
	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Record{}, fmt.Errorf("record: unexpected key token %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Record{}, err
		}
		rec.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("record: unexpected delimiter %v", delim)
	}
}

func recordFromMap(m map[string]any) Record {
	var r Record
	for k, v := range m {
		r.Set(k, v)
	}
	return r
}

type ExportRequest struct {
	DataType string         `json:"dataType" validate:"required"`
	Format   string         `json:"format" validate:"required"`
	Data     []Record       `json:"data" validate:"required"`
	Filters  map[string]any `json:"filters,omitempty"`
}

type DatasetImportRequest struct {
	Data []Record `json:"data" validate:"required,min=1"`
}
