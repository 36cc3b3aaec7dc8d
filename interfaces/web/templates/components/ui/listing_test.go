package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, page ListingPage) string {
	t.Helper()
	var buf strings.Builder
	require.NoError(t, Listing(page).Render(context.Background(), &buf))
	return buf.String()
}

func TestListing_RendersRows(t *testing.T) {
	html := render(t, ListingPage{
		Path:   "/docs",
		Parent: "/",
		Rows: []ListingRow{
			{Name: "sub", Path: "/docs/sub", IsDir: true},
			{Name: "a b.txt", Path: "/docs/a b.txt", Size: "3 B", Modified: "2024-03-04 10:20"},
		},
		TotalFiles: 1,
		TotalDirs:  1,
		TotalSize:  "3 B",
	})

	assert.Contains(t, html, `<h1 class="listing-path">/docs</h1>`)
	assert.Contains(t, html, `href="/fs/list?path=%2Fdocs%2Fsub"`)
	assert.Contains(t, html, `href="/fs/file?path=%2Fdocs%2Fa+b.txt"`)
	assert.Contains(t, html, `>sub/</a>`)
	assert.Contains(t, html, "2024-03-04 10:20")
	assert.Contains(t, html, "1 folders, 1 files, 3 B")
}

func TestListing_EscapesNames(t *testing.T) {
	html := render(t, ListingPage{
		Path: "/",
		Rows: []ListingRow{{Name: "<script>.txt", Path: "/<script>.txt"}},
	})

	assert.NotContains(t, html, "<script>.txt")
	assert.Contains(t, html, "&lt;script&gt;.txt")
}

func TestListing_EmptyFolderAndRecursiveLinks(t *testing.T) {
	html := render(t, ListingPage{Path: "/docs", Parent: "/", Recursive: true})

	assert.Contains(t, html, "Empty folder")
	assert.Contains(t, html, `href="/fs/list?path=%2F&amp;recursive=true"`)
}
