package commands

const (
	_etc = `C:\ProgramData\van-app-sheets`

	DEFAULT_CONFIG = _etc + `\van-app-sheets.yaml`
)
