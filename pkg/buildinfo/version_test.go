package buildinfo

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if got := UserAgent(); !strings.HasPrefix(got, "modviz/v1.2.3 ") {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := Get(); got.Version != "v1.2.3" {
		t.Errorf("Get().Version = %q", got.Version)
	}
}
