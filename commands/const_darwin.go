package commands

const (
	_etc = "/usr/local/etc/com.github.kidnamedtony"

	DEFAULT_CONFIG = _etc + "/van-app-sheets/van-app-sheets.yaml"
)
