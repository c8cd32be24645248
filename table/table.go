package table

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/tidwall/gjson"

	"github.com/kidnamedtony/van-app-sheets/van"
)

// Table is a flattened set of records ready to be written to a worksheet.
type Table struct {
	Name    string
	Header  []string
	Records [][]any
}

// Style controls how fields without a mapping are named.
type Style string

const (
	Keep  Style = "keep"
	Snake Style = "snake"
)

func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", Keep:
		return Keep, nil
	case Snake:
		return Snake, nil
	default:
		return Keep, fmt.Errorf("invalid field style '%s' - expected 'keep' or 'snake'", s)
	}
}

// FromRecords flattens records into a table. The columns are the union of the record fields
// in the order they are first seen, renamed with the mapping. Fields a record does not have
// are left empty.
func FromRecords(name string, records []van.Record, mapping Mapping, style Style) (*Table, error) {
	// ... build column index
	index := map[string]int{}
	columns := []string{}

	for _, r := range records {
		for _, k := range r.Keys() {
			if _, ok := index[k]; !ok {
				index[k] = len(columns)
				columns = append(columns, k)
			}
		}
	}

	// ... header
	header := Rename(columns, mapping, style)
	names := map[string]string{}
	for i, h := range header {
		if other, ok := names[h]; ok {
			return nil, fmt.Errorf("fields '%s' and '%s' both map to column '%s'", other, columns[i], h)
		}

		names[h] = columns[i]
	}

	// ... records
	rows := [][]any{}
	for _, r := range records {
		row := make([]any, len(columns))
		for i, k := range columns {
			v, _ := r.Get(k)
			row[i] = cell(v)
		}

		rows = append(rows, row)
	}

	return &Table{
		Name:    name,
		Header:  header,
		Records: rows,
	}, nil
}

// Rename maps field names to column names, keeping their order. Unmapped fields are kept as
// is or converted to snake_case, depending on the style.
func Rename(fields []string, mapping Mapping, style Style) []string {
	columns := make([]string, len(fields))

	for i, f := range fields {
		if to, ok := mapping[f]; ok {
			columns[i] = to
		} else if style == Snake {
			columns[i] = strcase.ToSnake(f)
		} else {
			columns[i] = f
		}
	}

	return columns
}

// Values returns the header and records as worksheet rows.
func (t *Table) Values() [][]any {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}

	values := [][]any{header}
	for _, record := range t.Records {
		values = append(values, record)
	}

	return values
}

func cell(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return ""

	case gjson.True, gjson.False:
		return v.Bool()

	case gjson.Number:
		if i := v.Int(); float64(i) == v.Float() {
			return i
		}
		return v.Float()

	case gjson.String:
		return v.String()

	default:
		return v.Raw
	}
}
