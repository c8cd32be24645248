package van

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Page is one response of a paged VAN endpoint.
type Page struct {
	Items        []Record
	Count        int64
	NextPageLink string
}

func parsePage(url string, body string) (Page, error) {
	if !gjson.Valid(body) {
		return Page{}, &MalformedResponseError{URL: url, Reason: "invalid JSON"}
	}

	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return Page{}, &MalformedResponseError{URL: url, Reason: "response is not a JSON object"}
	}

	count := doc.Get("count")
	if !count.Exists() {
		return Page{}, &MalformedResponseError{URL: url, Reason: "missing 'count'"}
	} else if count.Type != gjson.Number {
		return Page{}, &MalformedResponseError{URL: url, Reason: "'count' is not a number"}
	}

	items := doc.Get("items")
	if !items.Exists() {
		return Page{}, &MalformedResponseError{URL: url, Reason: "missing 'items'"}
	} else if !items.IsArray() {
		return Page{}, &MalformedResponseError{URL: url, Reason: "'items' is not an array"}
	}

	page := Page{
		Items: []Record{},
		Count: count.Int(),
	}

	for i, item := range items.Array() {
		if !item.IsObject() {
			return Page{}, &MalformedResponseError{URL: url, Reason: fmt.Sprintf("item %d is not a JSON object", i)}
		}

		page.Items = append(page.Items, Record{data: item})
	}

	switch next := doc.Get("nextPageLink"); next.Type {
	case gjson.Null:
	case gjson.String:
		page.NextPageLink = next.String()
	default:
		return Page{}, &MalformedResponseError{URL: url, Reason: "'nextPageLink' is not a string"}
	}

	return page, nil
}

// estimate returns the number of pages the first page's 'count' implies. It is only used to
// flag inconsistent upstream counts, never to stop paging.
func estimate(count int64, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}

	return int(count/int64(pageSize)) + 1
}
