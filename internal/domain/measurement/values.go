package measurement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Field is one named measurement, e.g. Chest = 40.
// Raw holds the JSON encoding of the value so numbers and strings survive a
// round trip untouched.
type Field struct {
	Name string
	Raw  json.RawMessage
}

// Text returns the value as it should be displayed: strings unquoted,
// everything else as compact JSON.
func (f Field) Text() string {
	return rawText(f.Raw)
}

// StringField builds a Field holding a JSON string.
func StringField(name, value string) Field {
	raw, _ := json.Marshal(value)
	return Field{Name: name, Raw: raw}
}

// NumberField builds a Field holding a JSON number.
func NumberField(name string, value float64) Field {
	return Field{Name: name, Raw: json.RawMessage(strconv.FormatFloat(value, 'f', -1, 64))}
}

// Values is the data of a measurement: either an ordered set of named fields,
// or a single scalar value kept from older records.
// INVARIANT: exactly one of fields/scalar is meaningful, chosen by object
type Values struct {
	object bool
	fields []Field
	scalar json.RawMessage
}

// FieldValues returns Values holding the given fields in order.
func FieldValues(fields ...Field) Values {
	return Values{object: true, fields: append([]Field(nil), fields...)}
}

// ScalarValue returns Values holding a single raw JSON value.
func ScalarValue(raw json.RawMessage) Values {
	return Values{scalar: append(json.RawMessage(nil), raw...)}
}

// IsObject reports whether the values are a field mapping.
func (v Values) IsObject() bool {
	return v.object
}

// Fields returns the named fields in their original order.
func (v Values) Fields() []Field {
	return v.fields
}

// ScalarText returns the scalar as compact JSON text, "null" when unset.
func (v Values) ScalarText() string {
	if len(v.scalar) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v.scalar); err != nil {
		return string(v.scalar)
	}
	return buf.String()
}

// IsEmpty reports whether there is nothing to show.
func (v Values) IsEmpty() bool {
	if v.object {
		return len(v.fields) == 0
	}
	return len(v.scalar) == 0 || string(v.scalar) == "null"
}

// MarshalJSON writes an object in field order, or the scalar as-is.
func (v Values) MarshalJSON() ([]byte, error) {
	if !v.object {
		if len(v.scalar) == 0 {
			return []byte("null"), nil
		}
		return v.scalar, nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Raw) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Raw)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order. Arrays become fields keyed
// by index; anything else is kept as a scalar.
func (v *Values) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return errors.New("measurement values: empty input")
	}
	switch trimmed[0] {
	case '{':
		fields, err := decodeObject(trimmed)
		if err != nil {
			return err
		}
		*v = Values{object: true, fields: fields}
	case '[':
		fields, err := decodeArray(trimmed)
		if err != nil {
			return err
		}
		*v = Values{object: true, fields: fields}
	default:
		if !json.Valid(trimmed) {
			return errors.New("measurement values: invalid JSON")
		}
		*v = Values{scalar: append(json.RawMessage(nil), trimmed...)}
	}
	return nil
}

func decodeObject(b []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	fields := []Field{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("measurement values: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		fields = upsertField(fields, Field{Name: key, Raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeArray(b []byte) ([]Field, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, err
	}
	fields := make([]Field, 0, len(items))
	for i, raw := range items {
		fields = append(fields, Field{Name: strconv.Itoa(i), Raw: raw})
	}
	return fields, nil
}

// upsertField keeps the first position of a repeated key and its last value,
// matching how JSON objects resolve duplicates.
func upsertField(fields []Field, f Field) []Field {
	for i := range fields {
		if fields[i].Name == f.Name {
			fields[i].Raw = f.Raw
			return fields
		}
	}
	return append(fields, f)
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
