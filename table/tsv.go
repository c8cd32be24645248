package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// WriteTSV writes the header and records as tab separated values.
func WriteTSV(f io.Writer, t *Table) error {
	if len(t.Header) == 0 {
		return fmt.Errorf("table '%s' has no columns", t.Name)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(t.Header); err != nil {
		return err
	}

	for _, record := range t.Records {
		row := make([]string, len(record))
		for i, v := range record {
			row[i] = fmt.Sprintf("%v", v)
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// ReadTSV reads a table written by WriteTSV. All cells are read back as strings.
func ReadTSV(f io.Reader, name string) (*Table, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("TSV file is empty")
	}

	rows := make([][]any, len(records))
	for i, record := range records {
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}

		rows[i] = row
	}

	return FromValues(name, rows)
}

// FromValues builds a table from worksheet rows, the first of which is the header.
// A blank header cell ends the header and blank rows are dropped.
func FromValues(name string, rows [][]any) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("Empty sheet")
	}

	// .. build index
	header := []string{}
	index := map[string]int{}
	for i, v := range rows[0] {
		h := clean(fmt.Sprintf("%v", v))
		if h == "" {
			break
		}

		if _, ok := index[h]; ok {
			return nil, fmt.Errorf("Duplicate column name '%s'", h)
		}

		index[h] = i
		header = append(header, h)
	}

	if len(header) == 0 {
		return nil, fmt.Errorf("Missing/invalid header row")
	}

	// ... records
	records := [][]any{}
	for _, row := range rows[1:] {
		record := make([]any, len(header))
		blank := true
		for i := range header {
			v := ""
			if i < len(row) {
				v = clean(fmt.Sprintf("%v", row[i]))
			}

			record[i] = v
			blank = blank && v == ""
		}

		if !blank {
			records = append(records, record)
		}
	}

	return &Table{
		Name:    name,
		Header:  header,
		Records: records,
	}, nil
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
