package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = "2.0.0"
	Commit = "unknown"
	if got := Info(); got != "2.0.0" {
		t.Errorf("Info() = %q, want bare version without commit", got)
	}

	Commit = "abcdef1234567890"
	if got := Info(); got != "2.0.0 (abcdef1)" {
		t.Errorf("Info() = %q", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.Contains(full, "drylog version") {
		t.Errorf("Full() = %q, missing product name", full)
	}
	if !strings.Contains(full, "Commit:") || !strings.Contains(full, "Built:") {
		t.Errorf("Full() = %q, missing build metadata", full)
	}
}
