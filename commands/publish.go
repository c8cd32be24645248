package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/natefinch/atomic"
	"google.golang.org/api/sheets/v4"

	"github.com/kidnamedtony/van-app-sheets/config"
	"github.com/kidnamedtony/van-app-sheets/table"
)

const (
	LabelComplete   = "UPDATED AT:"
	LabelIncomplete = "UPDATED AT (INCOMPLETE):"
	TimestampFormat = "2006-01-02 - 15:04:05"
)

// Publisher replaces the contents of a destination worksheet with a table and stamps it
// with the time it was updated.
type Publisher struct {
	Spreadsheet Spreadsheet
	Location    *time.Location

	// Snapshots is the directory the published tables are also written to as TSV files.
	// Snapshots are disabled if it is blank.
	Snapshots string

	Now   func() time.Time
	Debug bool
}

func (p *Publisher) Publish(ctx context.Context, t *table.Table, destination config.Destination, incomplete bool) error {
	worksheets, err := p.Spreadsheet.Worksheets(ctx)
	if err != nil {
		return err
	}

	if _, err := getSheet(worksheets, destination.Sheet); err != nil {
		return err
	}

	for _, c := range []string{destination.Label, destination.Timestamp} {
		if overlaps(t, destination.Anchor, c) {
			warnf("%v: 'updated at' cell %v overlaps the table written at %v", destination.Sheet, c, destination.Anchor)
		}
	}

	if err := p.Spreadsheet.Clear(ctx, []string{destination.Worksheet()}); err != nil {
		return fmt.Errorf("failed to clear worksheet '%s' (%w)", destination.Sheet, err)
	}

	label := LabelComplete
	if incomplete {
		label = LabelIncomplete
	}

	data := []*sheets.ValueRange{}
	if len(t.Header) > 0 {
		data = append(data, &sheets.ValueRange{
			Range:          destination.Range(destination.Anchor),
			MajorDimension: "ROWS",
			Values:         t.Values(),
		})
	}

	data = append(data,
		&sheets.ValueRange{
			Range:  destination.Range(destination.Label),
			Values: [][]any{{label}},
		},
		&sheets.ValueRange{
			Range:  destination.Range(destination.Timestamp),
			Values: [][]any{{p.timestamp()}},
		})

	if err := p.Spreadsheet.Update(ctx, data); err != nil {
		return fmt.Errorf("failed to update worksheet '%s' (%w)", destination.Sheet, err)
	}

	infof("Published %d %v record(s) to worksheet '%v'", len(t.Records), t.Name, destination.Sheet)

	if p.Snapshots != "" {
		if err := p.snapshot(t, destination); err != nil {
			warnf("%v", err)
		}
	}

	return nil
}

func (p *Publisher) timestamp() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	location := p.Location
	if location == nil {
		location = time.Local
	}

	return now().In(location).Format(TimestampFormat)
}

func (p *Publisher) snapshot(t *table.Table, destination config.Destination) error {
	if len(t.Header) == 0 {
		if p.Debug {
			debugf("%v: empty table, no snapshot", destination.Sheet)
		}
		return nil
	}

	var b bytes.Buffer
	if err := table.WriteTSV(&b, t); err != nil {
		return fmt.Errorf("error creating TSV snapshot for '%s' (%w)", destination.Sheet, err)
	}

	if err := os.MkdirAll(p.Snapshots, 0770); err != nil {
		return err
	}

	file := filepath.Join(p.Snapshots, destination.Sheet+".tsv")
	if err := atomic.WriteFile(file, &b); err != nil {
		return fmt.Errorf("error writing TSV snapshot %s (%w)", file, err)
	}

	if p.Debug {
		debugf("Saved snapshot %v", file)
	}

	return nil
}

// overlaps returns true if the cell falls inside the block of cells the table occupies
// when written at the anchor.
func overlaps(t *table.Table, anchor string, cell string) bool {
	if len(t.Header) == 0 {
		return false
	}

	col, row, ok := a1(anchor)
	if !ok {
		return false
	}

	c, r, ok := a1(cell)
	if !ok {
		return false
	}

	return c >= col && c < col+len(t.Header) && r >= row && r <= row+len(t.Records)
}

// a1 converts an A1 notation cell to 1-based column and row numbers.
func a1(cell string) (int, int, bool) {
	col := 0
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = 26*col + int(cell[i]-'A'+1)
		i++
	}

	if i == 0 || i == len(cell) {
		return 0, 0, false
	}

	row, err := strconv.Atoi(cell[i:])
	if err != nil || row < 1 {
		return 0, 0, false
	}

	return col, row, true
}
