package sharepointfs

import (
	"path"
	"strings"
)

// ApplyPathPrefix rewrites a caller path to the form the client expects:
// exactly one leading slash and no trailing slash.
func ApplyPathPrefix(p string) string {
	return "/" + strings.Trim(p, "/")
}

// childPath resolves an entry name reported by a listing against the folder
// that was listed.
func childPath(dir, name string) string {
	return ApplyPathPrefix(path.Join(dir, name))
}
