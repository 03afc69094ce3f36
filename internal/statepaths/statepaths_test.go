package statepaths

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestFileStateDirFromConfig(t *testing.T) {
	// viper state is global; no t.Parallel here.
	dir := t.TempDir()
	viper.Set("file_state_dir", dir)
	t.Cleanup(func() { viper.Set("file_state_dir", "") })

	if got := FileStateDir(); got != dir {
		t.Fatalf("FileStateDir() = %q, want %q", got, dir)
	}
	if got := ConversationsDir(); got != filepath.Join(dir, "conversations") {
		t.Fatalf("ConversationsDir() = %q, want the conversations subdirectory", got)
	}
}

func TestExpandHomePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cases := []struct {
		in   string
		want string
	}{
		{"~", "/home/tester"},
		{"~/.pytaibot/state", "/home/tester/.pytaibot/state"},
		{"/var/lib/pytaibot", "/var/lib/pytaibot"},
		{"relative/dir", "relative/dir"},
	}
	for _, tc := range cases {
		if got := expandHomePath(tc.in); got != tc.want {
			t.Fatalf("expandHomePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
