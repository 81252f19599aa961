package version

import (
	"strings"
	"testing"
)

func TestShortUsesInjectedVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got := Short(); got != "v1.2.3" {
		t.Errorf("Short() = %q, want v1.2.3", got)
	}
}

func TestInfo(t *testing.T) {
	info := Info()
	for _, want := range []string{"Version:", "Commit:", "Build time:", "Go version: go", "Platform:"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() missing %q:\n%s", want, info)
		}
	}
}
