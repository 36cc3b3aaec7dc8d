package sharepointfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPathPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"a", "/a"},
		{"//a", "/a"},
		{"a/b/", "/a/b"},
		{"///a/b//", "/a/b"},
		{"Shared/file name.txt", "/Shared/file name.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			once := ApplyPathPrefix(tt.in)
			assert.Equal(t, tt.want, once)
			assert.Equal(t, once, ApplyPathPrefix(once), "prefixing must be idempotent")
		})
	}
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "/sub", childPath("/", "sub"))
	assert.Equal(t, "/docs/sub", childPath("/docs", "sub"))
	assert.Equal(t, "/docs/sub", childPath("/docs", "/sub/"))
}

func TestMimeTypeFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/report.pdf", "application/pdf"},
		{"/UPPER.DOCX", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"/a/b/notes.txt", "text/plain"},
		{"/folder", ""},
		{"/", ""},
		{"/archive.unknownext", ""},
		{"/dir.with.dots/readme", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MimeTypeFromFilename(tt.path))
		})
	}
}
