package workspace

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name    string
		root    string
		relPath string
		want    string
		wantErr bool
	}{
		{name: "nested file", root: "/srv/content/en", relPath: "docs/guides/intro.md", want: "/srv/content/en/docs/guides/intro.md"},
		{name: "filesystem root", root: "/", relPath: "docs/intro.md", want: "/docs/intro.md"},
		{name: "relative root", root: "content/en", relPath: "api/electron-api.json", want: "content/en/api/electron-api.json"},
		{name: "dotdot prefixed name stays inside", root: "/srv/out", relPath: "docs/..intro.md", want: "/srv/out/docs/..intro.md"},
		{name: "escapes root", root: "/srv/out", relPath: "../escape.md", wantErr: true},
		{name: "dotdot clamped at filesystem root", root: "/", relPath: "../../etc/passwd", want: "/etc/passwd"},
		{name: "root itself", root: "/srv/out", relPath: ".", wantErr: true},
		{name: "sibling with shared prefix", root: "/srv/out", relPath: "../out-other/x.md", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := New(tc.root).resolve(tc.relPath)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.String(t, got).Equal(filepath.FromSlash(tc.want))
		})
	}
}
