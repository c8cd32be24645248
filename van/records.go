package van

import (
	"github.com/tidwall/gjson"
)

// Folder is an item of GET /folders.
type Folder struct {
	ID   int64
	Name string
}

// PrintedList is an item of GET /printedLists (a generated turf packet).
type PrintedList struct {
	Number       string
	Name         string
	EventSignups gjson.Result
	ListSize     int64
}

// SavedList is an item of GET /savedLists, i.e. the metadata of a folder's saved list.
type SavedList struct {
	SavedListID  int64
	Name         string
	Description  string
	ListCount    int64
	DoorCount    int64
	IsSuppressed bool
}

func ParseFolder(r Record) (Folder, error) {
	id, err := r.Int("folderId")
	if err != nil {
		return Folder{}, err
	}

	name, err := r.String("name")
	if err != nil {
		return Folder{}, err
	}

	return Folder{ID: id, Name: name}, nil
}

func ParsePrintedList(r Record) (PrintedList, error) {
	if err := r.Require("number", "name", "eventSignups", "listSize"); err != nil {
		return PrintedList{}, err
	}

	number, err := r.String("number")
	if err != nil {
		return PrintedList{}, err
	}

	name, err := r.String("name")
	if err != nil {
		return PrintedList{}, err
	}

	size, err := r.Int("listSize")
	if err != nil {
		return PrintedList{}, err
	}

	signups, _ := r.Get("eventSignups")

	return PrintedList{
		Number:       number,
		Name:         name,
		EventSignups: signups,
		ListSize:     size,
	}, nil
}

// ParseSavedList requires every metadata field to be present. 'description' may be null.
func ParseSavedList(r Record) (SavedList, error) {
	if err := r.Require("description", "listCount", "doorCount", "isSuppressed", "savedListId", "name"); err != nil {
		return SavedList{}, err
	}

	var list SavedList
	var err error

	if list.SavedListID, err = r.Int("savedListId"); err != nil {
		return SavedList{}, err
	} else if list.Name, err = r.String("name"); err != nil {
		return SavedList{}, err
	} else if list.ListCount, err = r.Int("listCount"); err != nil {
		return SavedList{}, err
	} else if list.DoorCount, err = r.Int("doorCount"); err != nil {
		return SavedList{}, err
	} else if list.IsSuppressed, err = r.Bool("isSuppressed"); err != nil {
		return SavedList{}, err
	}

	if description, _ := r.Get("description"); description.Type == gjson.String {
		list.Description = description.String()
	}

	return list, nil
}
