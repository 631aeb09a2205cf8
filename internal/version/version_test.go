package version

import "testing"

func TestFullVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "dev"
	if got := FullVersion(); got != "gwhosts development build" {
		t.Errorf("FullVersion() = %q", got)
	}

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2024-01-01"
	want := "gwhosts 1.2.0 (commit: abc123, built: 2024-01-01)"
	if got := FullVersion(); got != want {
		t.Errorf("FullVersion() = %q, want %q", got, want)
	}
}
