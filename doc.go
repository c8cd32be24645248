/*
Package van-app-sheets publishes GOTV turf data from the VAN REST API to Google Sheets.

van-app-sheets can be used from the command line but is really intended to be run from a cron job to keep
the GOTV import worksheets of a campaign spreadsheet up to date with the turf lists generated in VAN.

van-app-sheets supports the following commands:

  - sync, to fetch the allow-listed folders, their turf lists and their saved list metadata from VAN and
    replace the contents of the folders, turfs and metadata worksheets
  - get, to download a Google Sheets worksheet as a TSV file
  - put, to replace the contents of a table's worksheet with a TSV file
  - version, to display the current version
*/
package sheets
