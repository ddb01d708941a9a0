package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"

	appName = "wardbin"
)

var (
	WARDBIN_CONFIG_PATH string

	WARDBIN_LOG_PATH string

	// WARDBIN_DATA_DIR holds the collections of the json backend and the
	// sqlite database
	WARDBIN_DATA_DIR string
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	WARDBIN_CONFIG_PATH = resolve("WARDBIN_CONFIG_PATH", "XDG_CONFIG_HOME", defaultXDGConfigDirname, "config.yaml")
	WARDBIN_LOG_PATH = resolve("WARDBIN_LOG_PATH", "XDG_DATA_HOME", defaultXDGDataDirname, "debug.log")
	WARDBIN_DATA_DIR = resolve("WARDBIN_DATA_DIR", "XDG_DATA_HOME", defaultXDGDataDirname, "data")
}

func resolve(key, xdgKey, fallback, name string) string {
	if e := os.Getenv(key); e != "" {
		return e
	}
	base := os.Getenv(xdgKey)
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}
		base = filepath.Join(homeDir, fallback)
	}
	return filepath.Join(base, appName, name)
}
