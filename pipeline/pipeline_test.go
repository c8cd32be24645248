package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/kidnamedtony/van-app-sheets/van"
)

type response struct {
	items []string
	err   error
}

// fakeSource returns canned items keyed by endpoint + encoded query. An error is returned
// after the items.
type fakeSource struct {
	responses map[string]response
	requests  []string
}

func (f *fakeSource) Items(ctx context.Context, endpoint string, query url.Values) iter.Seq2[van.Record, error] {
	key := endpoint
	if q := query.Encode(); q != "" {
		key += "?" + q
	}

	f.requests = append(f.requests, key)

	return func(yield func(van.Record, error) bool) {
		rsp, ok := f.responses[key]
		if !ok {
			yield(van.Record{}, fmt.Errorf("no response for %v", key))
			return
		}

		for _, item := range rsp.items {
			r, err := van.NewRecord(item)
			if !yield(r, err) || err != nil {
				return
			}
		}

		if rsp.err != nil {
			yield(van.Record{}, rsp.err)
		}
	}
}

func turf(number int) string {
	return fmt.Sprintf(`{"number":"%05d","name":"Turf %d","eventSignups":[],"listSize":%d}`, number, number, 10*number)
}

func savedList(id int, name string) string {
	return fmt.Sprintf(`{"savedListId":%d,"name":"%s","description":null,"listCount":100,"doorCount":40,"isSuppressed":false}`, id, name)
}

func names(records []van.Record, field string) []string {
	list := []string{}
	for _, r := range records {
		v, _ := r.String(field)
		list = append(list, v)
	}

	return list
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		responses: map[string]response{
			"/folders": {items: []string{
				`{"folderId":41,"name":"GOTV_R00_Turf"}`,
				`{"folderId":42,"name":"GOTV_R01_Turf"}`,
				`{"folderId":43,"name":"Canvass"}`,
			}},
			"/printedLists?folderName=GOTV_R01_Turf&generatedAfter=2024-11-04": {items: []string{turf(1), turf(2), turf(3)}},
			"/printedLists?folderName=GOTV_R00_Turf&generatedAfter=2024-11-04": {items: []string{turf(4)}},
			"/savedLists?folderId=41": {items: []string{savedList(1, "R00 A"), savedList(2, "R00 B")}},
			"/savedLists?folderId=42": {items: []string{savedList(3, "R01 A")}},
		},
	}
}

func TestRunWithAllowList(t *testing.T) {
	source := newFakeSource()

	result := Run(context.Background(), source, Options{
		Folders:        []string{"GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if !result.Complete() {
		t.Fatalf("expected complete run, got %v/%v/%v", result.FolderRecords.Status, result.Turfs.Status, result.Metadata.Status)
	}

	if diff := cmp.Diff([]van.Folder{{ID: 42, Name: "GOTV_R01_Turf"}}, result.Folders); diff != "" {
		t.Errorf("incorrect folder set (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Turf 1", "Turf 2", "Turf 3"}, names(result.Turfs.Records, "name")); diff != "" {
		t.Errorf("incorrect turfs (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"GOTV_R01_Turf", "GOTV_R01_Turf", "GOTV_R01_Turf"}, names(result.Turfs.Records, "folderName")); diff != "" {
		t.Errorf("turfs not tagged with folder name (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"R01 A"}, names(result.Metadata.Records, "name")); diff != "" {
		t.Errorf("incorrect metadata (-want +got):\n%s", diff)
	}

	expected := []string{
		"/folders",
		"/printedLists?folderName=GOTV_R01_Turf&generatedAfter=2024-11-04",
		"/savedLists?folderId=42",
	}

	if diff := cmp.Diff(expected, source.requests); diff != "" {
		t.Errorf("incorrect requests (-want +got):\n%s", diff)
	}
}

func TestRunWithNoMatchingFolders(t *testing.T) {
	source := newFakeSource()

	result := Run(context.Background(), source, Options{
		Folders:        []string{"GOTV_R99_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if !result.Complete() {
		t.Errorf("expected complete run")
	}

	for _, p := range []PassResult{result.FolderRecords, result.Turfs, result.Metadata} {
		if len(p.Records) != 0 {
			t.Errorf("expected empty pass, got %v records", len(p.Records))
		}
	}

	if diff := cmp.Diff([]string{"/folders"}, source.requests); diff != "" {
		t.Errorf("incorrect requests (-want +got):\n%s", diff)
	}
}

func TestRunWithMetadataError(t *testing.T) {
	source := newFakeSource()
	source.responses["/savedLists?folderId=42"] = response{
		items: []string{savedList(3, "R01 A")},
		err:   &van.TransportError{URL: "/savedLists?folderId=42", Err: errors.New("503 Service Unavailable")},
	}

	result := Run(context.Background(), source, Options{
		Folders:        []string{"GOTV_R00_Turf", "GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if result.Complete() {
		t.Fatalf("expected incomplete run")
	}

	if result.Turfs.Status != Complete {
		t.Errorf("incorrect turfs status - expected:%v, got:%v", Complete, result.Turfs.Status)
	}

	if result.Metadata.Status != Partial {
		t.Errorf("incorrect metadata status - expected:%v, got:%v", Partial, result.Metadata.Status)
	}

	var transportError *van.TransportError
	if !errors.As(result.Metadata.Err, &transportError) {
		t.Errorf("expected transport error, got %v", result.Metadata.Err)
	}

	if diff := cmp.Diff([]string{"R00 A", "R00 B"}, names(result.Metadata.Records, "name")); diff != "" {
		t.Errorf("incorrect metadata (-want +got):\n%s", diff)
	}
}

func TestRunWithFolderError(t *testing.T) {
	source := newFakeSource()
	source.responses["/folders"] = response{err: errors.New("connection refused")}

	result := Run(context.Background(), source, Options{
		Folders:        []string{"GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if result.FolderRecords.Status != Failed {
		t.Errorf("incorrect folders status - expected:%v, got:%v", Failed, result.FolderRecords.Status)
	}

	if len(result.Folders) != 0 || len(result.Turfs.Records) != 0 || len(result.Metadata.Records) != 0 {
		t.Errorf("expected no records after folder failure")
	}
}

func TestRunWithMalformedFolder(t *testing.T) {
	source := newFakeSource()
	source.responses["/folders"] = response{items: []string{
		`{"folderId":42,"name":"GOTV_R01_Turf"}`,
		`{"name":"GOTV_R01_Turf"}`,
	}}

	result := Run(context.Background(), source, Options{
		Folders:        []string{"GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if result.FolderRecords.Status != Partial {
		t.Errorf("incorrect folders status - expected:%v, got:%v", Partial, result.FolderRecords.Status)
	}

	var missing *van.MissingFieldError
	if !errors.As(result.FolderRecords.Err, &missing) || missing.Field != "folderId" {
		t.Errorf("expected missing 'folderId' error, got %v", result.FolderRecords.Err)
	}

	if diff := cmp.Diff([]van.Folder{{ID: 42, Name: "GOTV_R01_Turf"}}, result.Folders); diff != "" {
		t.Errorf("incorrect folder set (-want +got):\n%s", diff)
	}

	if len(result.Turfs.Records) != 3 {
		t.Errorf("expected turfs for the valid folder, got %v", len(result.Turfs.Records))
	}
}

func TestRunWithMalformedTurf(t *testing.T) {
	source := newFakeSource()
	source.responses["/printedLists?folderName=GOTV_R01_Turf&generatedAfter=2024-11-04"] = response{
		items: []string{turf(1), `{"number":"00002","name":"Turf 2"}`},
	}

	result := Run(context.Background(), source, Options{
		Folders:        []string{"GOTV_R00_Turf", "GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if result.Turfs.Status != Partial {
		t.Errorf("incorrect turfs status - expected:%v, got:%v", Partial, result.Turfs.Status)
	}

	if diff := cmp.Diff([]string{"Turf 4"}, names(result.Turfs.Records, "name")); diff != "" {
		t.Errorf("incorrect turfs (-want +got):\n%s", diff)
	}

	if result.Metadata.Status != Complete {
		t.Errorf("incorrect metadata status - expected:%v, got:%v", Complete, result.Metadata.Status)
	}
}

func TestRunWithDuplicateFolderIDs(t *testing.T) {
	source := newFakeSource()
	source.responses["/folders"] = response{items: []string{
		`{"folderId":42,"name":"GOTV_R01_Turf"}`,
		`{"folderId":42,"name":"GOTV_R01_Turf"}`,
	}}

	result := Run(context.Background(), source, Options{
		Folders:        []string{"GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if len(result.Metadata.Records) != 1 {
		t.Errorf("expected one metadata fetch per unique folder id, got %v records", len(result.Metadata.Records))
	}
}

func TestRunIsDeterministic(t *testing.T) {
	options := Options{
		Folders:        []string{"GOTV_R00_Turf", "GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	}

	raw := func(result Result) []string {
		list := []string{}
		for _, p := range []PassResult{result.FolderRecords, result.Turfs, result.Metadata} {
			for _, r := range p.Records {
				list = append(list, r.Raw())
			}
		}

		return list
	}

	first := raw(Run(context.Background(), newFakeSource(), options))
	second := raw(Run(context.Background(), newFakeSource(), options))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("run is not deterministic (-first +second):\n%s", diff)
	}

	if len(first) != 2+4+3 {
		t.Errorf("incorrect number of records - expected:%v, got:%v", 9, len(first))
	}
}

func TestRunWithVANClient(t *testing.T) {
	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case rq.URL.Path == "/folders":
			fmt.Fprint(w, `{"items":[{"folderId":42,"name":"GOTV_R01_Turf"},{"folderId":43,"name":"Canvass"}],"count":2,"nextPageLink":null}`)

		case rq.URL.Path == "/printedLists" && rq.URL.Query().Get("page") == "2":
			fmt.Fprintf(w, `{"items":[%s],"count":13,"nextPageLink":null}`, strings.Join([]string{turf(11), turf(12), turf(13)}, ","))

		case rq.URL.Path == "/printedLists":
			items := []string{}
			for i := 1; i <= 10; i++ {
				items = append(items, turf(i))
			}
			fmt.Fprintf(w, `{"items":[%s],"count":13,"nextPageLink":"%s/printedLists?page=2"}`, strings.Join(items, ","), server.URL)

		case rq.URL.Path == "/savedLists":
			fmt.Fprintf(w, `{"items":[%s],"count":1,"nextPageLink":""}`, savedList(7, "R01"))

		default:
			http.NotFound(w, rq)
		}
	}))

	defer server.Close()

	client := van.NewClient(van.Credentials{ApplicationName: "app", APIKey: "secret"}, van.Options{BaseURL: server.URL})

	result := Run(context.Background(), client, Options{
		Folders:        []string{"GOTV_R01_Turf"},
		GeneratedAfter: "2024-11-04",
	})

	if !result.Complete() {
		t.Fatalf("expected complete run (%v, %v, %v)", result.FolderRecords.Err, result.Turfs.Err, result.Metadata.Err)
	}

	if len(result.Turfs.Records) != 13 {
		t.Errorf("incorrect number of turfs - expected:%v, got:%v", 13, len(result.Turfs.Records))
	}

	for _, r := range result.Turfs.Records {
		if v, _ := r.String("folderName"); v != "GOTV_R01_Turf" {
			t.Errorf("turf %v not tagged with folder name", r.Raw())
		}
	}

	if len(result.Metadata.Records) != 1 {
		t.Errorf("incorrect number of saved lists - expected:%v, got:%v", 1, len(result.Metadata.Records))
	}
}

func TestReferenceDate(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("%v", err)
	}

	tests := []struct {
		now      time.Time
		expected string
	}{
		{time.Date(2024, time.November, 5, 12, 0, 0, 0, time.UTC), "2024-11-04"},
		{time.Date(2024, time.November, 5, 3, 0, 0, 0, time.UTC), "2024-11-03"},
		{time.Date(2024, time.March, 1, 15, 0, 0, 0, time.UTC), "2024-02-29"},
		{time.Date(2025, time.January, 1, 6, 0, 0, 0, time.UTC), "2024-12-31"},
	}

	for _, tt := range tests {
		if date := ReferenceDate(tt.now, eastern); date != tt.expected {
			t.Errorf("incorrect reference date for %v - expected:%v, got:%v", tt.now, tt.expected, date)
		}
	}
}
