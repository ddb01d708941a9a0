package env

import (
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Run("explicit variable wins", func(t *testing.T) {
		t.Setenv("WARDBIN_TEST_PATH", "/tmp/custom.yaml")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		if got := resolve("WARDBIN_TEST_PATH", "XDG_CONFIG_HOME", ".config", "config.yaml"); got != "/tmp/custom.yaml" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("xdg base dir", func(t *testing.T) {
		t.Setenv("WARDBIN_TEST_PATH", "")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")
		want := filepath.Join("/xdg/data", "wardbin", "debug.log")
		if got := resolve("WARDBIN_TEST_PATH", "XDG_DATA_HOME", ".local/share", "debug.log"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("WARDBIN_TEST_PATH", "")
		t.Setenv("XDG_DATA_HOME", "")
		want := filepath.Join(home, ".local/share", "wardbin", "data")
		if got := resolve("WARDBIN_TEST_PATH", "XDG_DATA_HOME", ".local/share", "data"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
