package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"

	tmpl := Template()
	for _, want := range []string{"{{.Name}} version v1.2.3", "commit: abc123", "built: 2026-01-02"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
	if got := Get(); got != (Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02"}) {
		t.Errorf("Get() = %+v", got)
	}
}
