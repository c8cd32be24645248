package pipeline

import (
	"fmt"
	"log"

	"github.com/kidnamedtony/van-app-sheets/van"
)

// State is a step of a sync run. A run only ever moves forward through the states and a
// crash at any point means starting again from FetchFolders.
type State int

const (
	FetchFolders State = iota
	FetchListRecords
	FetchMetadata
	Publish
	Done
)

func (s State) String() string {
	switch s {
	case FetchFolders:
		return "fetch-folders"
	case FetchListRecords:
		return "fetch-list-records"
	case FetchMetadata:
		return "fetch-metadata"
	case Publish:
		return "publish"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Status int

const (
	Complete Status = iota
	Partial
	Failed
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// PassResult is the outcome of one fetch pass: the records accumulated before the pass
// ended and, if it ended early, the error that stopped it.
type PassResult struct {
	Records []van.Record
	Status  Status
	Err     error
}

func finish(records []van.Record, err error) PassResult {
	if records == nil {
		records = []van.Record{}
	}

	switch {
	case err == nil:
		return PassResult{Records: records, Status: Complete}

	case len(records) > 0:
		return PassResult{Records: records, Status: Partial, Err: err}

	default:
		return PassResult{Records: records, Status: Failed, Err: err}
	}
}

// Transition logs a change of state. Exported for the publishing side of a run.
func Transition(s State) {
	state(s)
}

func state(s State) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf("-- %v", s))
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
