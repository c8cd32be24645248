package table

// Mapping renames API fields to worksheet column names.
type Mapping map[string]string

var FoldersMapping = Mapping{
	"folderId": "folder_id",
	"name":     "folder_name",
}

var TurfsMapping = Mapping{
	"number":       "turf_list_number",
	"name":         "turf_list_name",
	"eventSignups": "event_signups",
	"listSize":     "list_size",
	"folderName":   "folder_name",
}

var MetadataMapping = Mapping{
	"description":  "description",
	"listCount":    "list_count",
	"doorCount":    "door_count",
	"isSuppressed": "is_suppressed",
	"savedListId":  "saved_list_id",
	"name":         "turf_folder_name",
}
