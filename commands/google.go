package commands

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Spreadsheet is the subset of the Google Sheets API used to publish and retrieve tables.
type Spreadsheet interface {
	Worksheets(ctx context.Context) ([]string, error)
	Clear(ctx context.Context, ranges []string) error
	Update(ctx context.Context, data []*sheets.ValueRange) error
	Get(ctx context.Context, area string) ([][]any, error)
}

type googleSheet struct {
	google *sheets.Service
	id     string
}

func openSpreadsheet(ctx context.Context, serviceAccount []byte, url string, debug bool) (*googleSheet, error) {
	id, err := spreadsheetID(url)
	if err != nil {
		return nil, err
	}

	if debug {
		debugf("Spreadsheet - ID:%s", id)
	}

	client, err := authorize(ctx, serviceAccount, SHEETS)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &googleSheet{
		google: google,
		id:     id,
	}, nil
}

func (g *googleSheet) Worksheets(ctx context.Context) ([]string, error) {
	spreadsheet, err := g.google.Spreadsheets.Get(g.id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	titles := []string{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}

	return titles, nil
}

func (g *googleSheet) Clear(ctx context.Context, ranges []string) error {
	rq := sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}

	if _, err := g.google.Spreadsheets.Values.BatchClear(g.id, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

func (g *googleSheet) Update(ctx context.Context, data []*sheets.ValueRange) error {
	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	if _, err := g.google.Spreadsheets.Values.BatchUpdate(g.id, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

func (g *googleSheet) Get(ctx context.Context, area string) ([][]any, error) {
	response, err := g.google.Spreadsheets.Values.Get(g.id, area).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return response.Values, nil
}
