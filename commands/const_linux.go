package commands

const (
	_etc = "/usr/local/etc/van-app-sheets"

	DEFAULT_CONFIG = _etc + "/van-app-sheets.yaml"
)
