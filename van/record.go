package van

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Record is a single JSON object from the 'items' array of a page. The original key order
// is retained so that tables built from records keep the API's column order.
type Record struct {
	data gjson.Result
}

// NewRecord parses a JSON object into a Record.
func NewRecord(json string) (Record, error) {
	if !gjson.Valid(json) {
		return Record{}, fmt.Errorf("invalid JSON record")
	}

	data := gjson.Parse(json)
	if !data.IsObject() {
		return Record{}, fmt.Errorf("record is not a JSON object")
	}

	return Record{data: data}, nil
}

func (r Record) Raw() string {
	return r.data.Raw
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.data.Raw == "" {
		return []byte("{}"), nil
	}

	return []byte(r.data.Raw), nil
}

// Keys returns the record field names in document order.
func (r Record) Keys() []string {
	keys := []string{}
	r.data.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})

	return keys
}

// Get returns the raw value of a top-level field and whether it exists.
func (r Record) Get(field string) (gjson.Result, bool) {
	v := r.data.Get(escape(field))

	return v, v.Exists()
}

// Require returns a MissingFieldError for the first field that is not present.
func (r Record) Require(fields ...string) error {
	for _, field := range fields {
		if _, ok := r.Get(field); !ok {
			return &MissingFieldError{Field: field}
		}
	}

	return nil
}

func (r Record) String(field string) (string, error) {
	v, err := r.value(field)
	if err != nil {
		return "", err
	}

	switch v.Type {
	case gjson.String, gjson.Number:
		return v.String(), nil

	default:
		return "", &FieldTypeError{Field: field, Want: "string", Got: typeOf(v)}
	}
}

func (r Record) Int(field string) (int64, error) {
	v, err := r.value(field)
	if err != nil {
		return 0, err
	}

	if v.Type != gjson.Number {
		return 0, &FieldTypeError{Field: field, Want: "number", Got: typeOf(v)}
	}

	return v.Int(), nil
}

func (r Record) Bool(field string) (bool, error) {
	v, err := r.value(field)
	if err != nil {
		return false, err
	}

	if !v.IsBool() {
		return false, &FieldTypeError{Field: field, Want: "boolean", Got: typeOf(v)}
	}

	return v.Bool(), nil
}

// Set returns a copy of the record with the field set to value. Existing fields keep their
// position, new fields are appended.
func (r Record) Set(field string, value any) (Record, error) {
	raw := r.data.Raw
	if raw == "" {
		raw = "{}"
	}

	json, err := sjson.Set(raw, escape(field), value)
	if err != nil {
		return r, err
	}

	return Record{data: gjson.Parse(json)}, nil
}

func (r Record) value(field string) (gjson.Result, error) {
	v, ok := r.Get(field)
	if !ok || v.Type == gjson.Null {
		return v, &MissingFieldError{Field: field}
	}

	return v, nil
}

func typeOf(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	case v.IsBool():
		return "boolean"
	default:
		return strings.ToLower(v.Type.String())
	}
}

// escape quotes a field name for use as a gjson/sjson path component.
func escape(field string) string {
	var b strings.Builder

	for _, ch := range field {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' && ch != '-' {
			b.WriteRune('\\')
		}
		b.WriteRune(ch)
	}

	return b.String()
}
