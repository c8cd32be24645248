package van

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, json string) Record {
	t.Helper()

	r, err := NewRecord(json)
	require.NoError(t, err)

	return r
}

func TestRecordKeysKeepDocumentOrder(t *testing.T) {
	r := record(t, `{"number":"7WQ","name":"Turf 1","eventSignups":[],"listSize":42}`)

	assert.Equal(t, []string{"number", "name", "eventSignups", "listSize"}, r.Keys())
}

func TestRecordAccessors(t *testing.T) {
	r := record(t, `{"folderId":1042,"name":"GOTV_R01_Turf","isSuppressed":false,"description":null}`)

	id, err := r.Int("folderId")
	require.NoError(t, err)
	assert.Equal(t, int64(1042), id)

	name, err := r.String("name")
	require.NoError(t, err)
	assert.Equal(t, "GOTV_R01_Turf", name)

	suppressed, err := r.Bool("isSuppressed")
	require.NoError(t, err)
	assert.False(t, suppressed)

	assert.NoError(t, r.Require("description"))
}

func TestRecordAccessorsWithMissingFields(t *testing.T) {
	r := record(t, `{"name":"x","description":null,"count":"seven"}`)

	var missing *MissingFieldError

	_, err := r.Int("folderId")
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "folderId", missing.Field)

	_, err = r.String("description")
	assert.ErrorAs(t, err, &missing, "expected null to be reported as missing")

	err = r.Require("name", "listSize")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "listSize", missing.Field)

	var mistyped *FieldTypeError
	_, err = r.Int("count")
	assert.ErrorAs(t, err, &mistyped)
}

func TestRecordSet(t *testing.T) {
	r := record(t, `{"number":"7WQ","name":"Turf 1"}`)

	tagged, err := r.Set("folderName", "GOTV_R01_Turf")
	require.NoError(t, err)

	assert.Equal(t, []string{"number", "name", "folderName"}, tagged.Keys())
	assert.Equal(t, []string{"number", "name"}, r.Keys(), "expected Set to leave the original untouched")

	renamed, err := tagged.Set("name", "Turf 1A")
	require.NoError(t, err)
	assert.Equal(t, []string{"number", "name", "folderName"}, renamed.Keys())
}

func TestRecordFieldsWithPathCharacters(t *testing.T) {
	r := record(t, `{"a.b":1,"c*":2}`)

	v, err := r.Int("a.b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = r.Int("c*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestNewRecordRejectsNonObjects(t *testing.T) {
	_, err := NewRecord(`[1,2,3]`)
	assert.Error(t, err)

	_, err = NewRecord(`{"a":`)
	assert.Error(t, err)
}

func TestParseFolder(t *testing.T) {
	folder, err := ParseFolder(record(t, `{"folderId":1042,"name":"GOTV_R01_Turf"}`))

	require.NoError(t, err)
	assert.Equal(t, Folder{ID: 1042, Name: "GOTV_R01_Turf"}, folder)

	_, err = ParseFolder(record(t, `{"name":"GOTV_R01_Turf"}`))

	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}

func TestParsePrintedList(t *testing.T) {
	list, err := ParsePrintedList(record(t, `{"number":"7WQ","name":"Turf 1","eventSignups":[{"eventId":9}],"listSize":42}`))

	require.NoError(t, err)
	assert.Equal(t, "7WQ", list.Number)
	assert.Equal(t, int64(42), list.ListSize)
	assert.True(t, list.EventSignups.IsArray())

	_, err = ParsePrintedList(record(t, `{"number":"7WQ","name":"Turf 1","listSize":42}`))
	assert.EqualError(t, err, "missing field 'eventSignups'")
}

func TestParseSavedList(t *testing.T) {
	list, err := ParseSavedList(record(t, `{"description":null,"listCount":3,"doorCount":120,"isSuppressed":true,"savedListId":88,"name":"R01"}`))

	require.NoError(t, err)
	assert.Equal(t, SavedList{SavedListID: 88, Name: "R01", ListCount: 3, DoorCount: 120, IsSuppressed: true}, list)

	_, err = ParseSavedList(record(t, `{"listCount":3,"doorCount":120,"isSuppressed":true,"savedListId":88,"name":"R01"}`))
	assert.EqualError(t, err, "missing field 'description'")
}
