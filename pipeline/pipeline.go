package pipeline

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"time"

	"github.com/kidnamedtony/van-app-sheets/van"
)

// Source is the part of the VAN client the pipeline needs.
type Source interface {
	Items(ctx context.Context, endpoint string, query url.Values) iter.Seq2[van.Record, error]
}

type Options struct {
	// Folders is the allow-list of folder names to sync.
	Folders []string

	// GeneratedAfter is the 'generatedAfter' date (YYYY-MM-DD) used for every folder's
	// printed lists.
	GeneratedAfter string

	Debug bool
}

// Result holds the three tables of a run. Folders is the typed folder set that drove the
// printed list and saved list passes.
type Result struct {
	GeneratedAfter string
	Folders        []van.Folder

	FolderRecords PassResult
	Turfs         PassResult
	Metadata      PassResult
}

// Complete returns true if every pass completed without an error.
func (r Result) Complete() bool {
	return r.FolderRecords.Status == Complete && r.Turfs.Status == Complete && r.Metadata.Status == Complete
}

// ReferenceDate returns the day before now in the given location, as YYYY-MM-DD.
func ReferenceDate(now time.Time, location *time.Location) string {
	return now.In(location).AddDate(0, 0, -1).Format("2006-01-02")
}

// Run fetches the allow-listed folders, then the printed lists of each folder, then the
// saved lists of each unique folder id. A pass stops at its first error and keeps what it had
// accumulated up to the failing folder; later passes still run with whatever folders were
// found.
func Run(ctx context.Context, source Source, options Options) Result {
	result := Result{
		GeneratedAfter: options.GeneratedAfter,
	}

	state(FetchFolders)
	result.Folders, result.FolderRecords = folders(ctx, source, options)

	state(FetchListRecords)
	result.Turfs = turfs(ctx, source, result.Folders, options)

	state(FetchMetadata)
	result.Metadata = metadata(ctx, source, result.Folders)

	return result
}

func folders(ctx context.Context, source Source, options Options) ([]van.Folder, PassResult) {
	infof("Getting folders, looking for %q", options.Folders)

	records, err := van.Collect(source.Items(ctx, van.EndpointFolders, nil), van.AllowList(options.Folders...))
	if err != nil {
		warnf("An error occurred while getting folder data (%v)", err)
		return nil, finish(nil, err)
	}

	set := []van.Folder{}
	kept := []van.Record{}
	for _, r := range records {
		folder, err := van.ParseFolder(r)
		if err != nil {
			warnf("An error occurred while getting folder data (%v)", err)
			return set, finish(kept, err)
		}

		infof("Adding folder: %v (%v)", folder.Name, folder.ID)

		set = append(set, folder)
		kept = append(kept, r)
	}

	infof("Retrieved %d folder(s)", len(set))

	return set, finish(kept, nil)
}

func turfs(ctx context.Context, source Source, folders []van.Folder, options Options) PassResult {
	infof("Getting turf lists generated after %v for %d folder(s)", options.GeneratedAfter, len(folders))

	list := []van.Record{}
	for _, folder := range folders {
		query := url.Values{
			"generatedAfter": []string{options.GeneratedAfter},
			"folderName":     []string{folder.Name},
		}

		records, err := fetch(ctx, source, van.EndpointPrintedLists, query, func(r van.Record) (van.Record, error) {
			if _, err := van.ParsePrintedList(r); err != nil {
				return r, err
			}

			return r.Set("folderName", folder.Name)
		})

		if err != nil {
			warnf("An error occurred while getting turf lists for folder '%v' (%v)", folder.Name, err)
			return finish(list, err)
		}

		if options.Debug {
			for _, r := range records {
				name, _ := r.String("name")
				debugf("Turf: %v", name)
			}
		}

		infof("Retrieved %d turf list(s) for folder '%v'", len(records), folder.Name)

		list = append(list, records...)
	}

	return finish(list, nil)
}

func metadata(ctx context.Context, source Source, folders []van.Folder) PassResult {
	ids := []int64{}
	seen := map[int64]bool{}
	for _, folder := range folders {
		if !seen[folder.ID] {
			seen[folder.ID] = true
			ids = append(ids, folder.ID)
		}
	}

	infof("Getting folder metadata for %d folder(s)", len(ids))

	list := []van.Record{}
	for _, id := range ids {
		query := url.Values{
			"folderId": []string{fmt.Sprintf("%d", id)},
		}

		records, err := fetch(ctx, source, van.EndpointSavedLists, query, func(r van.Record) (van.Record, error) {
			_, err := van.ParseSavedList(r)
			return r, err
		})

		if err != nil {
			warnf("An error occurred while getting metadata for folder %v (%v)", id, err)
			return finish(list, err)
		}

		infof("Retrieved %d saved list(s) for folder %v", len(records), id)

		list = append(list, records...)
	}

	return finish(list, nil)
}

// fetch returns all the records of one request chain, checked and transformed by f. Records
// are only returned if the whole chain succeeded.
func fetch(ctx context.Context, source Source, endpoint string, query url.Values, f func(van.Record) (van.Record, error)) ([]van.Record, error) {
	records, err := van.Collect(source.Items(ctx, endpoint, query), nil)
	if err != nil {
		return nil, err
	}

	list := make([]van.Record, 0, len(records))
	for _, r := range records {
		if v, err := f(r); err != nil {
			return nil, fmt.Errorf("%v: %w", endpoint, err)
		} else {
			list = append(list, v)
		}
	}

	return list, nil
}
