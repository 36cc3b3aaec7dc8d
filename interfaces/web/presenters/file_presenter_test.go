package presenters

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spfs/application"
	"spfs/domain/filesystem"
	"spfs/domain/journal"
	"spfs/test/helpers"
)

func extensionMime(p string) string {
	if p == "docs/a.txt" {
		return "text/plain"
	}
	return ""
}

func TestFilePresenter_ToListingView(t *testing.T) {
	// Arrange
	presenter := NewFilePresenter(extensionMime)
	td := helpers.NewTestData()
	entries := []filesystem.Entry{td.FileEntry("docs/a.txt", 3), td.DirEntry("docs/sub")}

	// Act
	view := presenter.ToListingView("/docs", true, entries)

	// Assert
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "/docs", view.Path)
	assert.True(t, view.Recursive)
	assert.Equal(t, "text/plain", view.Entries[0].MimeType)
	assert.Equal(t, "dir", view.Entries[1].Type)
	assert.Empty(t, view.Entries[1].MimeType)
}

func TestFilePresenter_ToListingView_EmptyIsNotNull(t *testing.T) {
	view := NewFilePresenter(nil).ToListingView("/", false, nil)

	assert.NotNil(t, view.Entries)
	assert.Empty(t, view.Entries)
}

func TestFilePresenter_ToListingPage(t *testing.T) {
	presenter := NewFilePresenter(nil)
	td := helpers.NewTestData()
	entries := []filesystem.Entry{
		td.FileEntry("docs/b.txt", 2000),
		td.DirEntry("docs/zeta"),
		td.FileEntry("docs/a.txt", 500),
	}

	page := presenter.ToListingPage("docs/", false, entries)

	assert.Equal(t, "/docs", page.Path)
	assert.Equal(t, "/", page.Parent)
	require.Len(t, page.Rows, 3)

	// folders first, then files by path
	assert.Equal(t, "zeta", page.Rows[0].Name)
	assert.True(t, page.Rows[0].IsDir)
	assert.Equal(t, "a.txt", page.Rows[1].Name)
	assert.Equal(t, "/docs/a.txt", page.Rows[1].Path)
	assert.Equal(t, "500 B", page.Rows[1].Size)
	assert.Equal(t, "2.0 kB", page.Rows[2].Size)
	assert.Equal(t, "2024-03-04 10:20", page.Rows[1].Modified)

	assert.Equal(t, 1, page.TotalDirs)
	assert.Equal(t, 2, page.TotalFiles)
	assert.Equal(t, "2.5 kB", page.TotalSize)

	// input order is untouched
	assert.Equal(t, "docs/b.txt", entries[0].Path)
}

func TestFilePresenter_ToListingPage_Root(t *testing.T) {
	page := NewFilePresenter(nil).ToListingPage("", false, nil)

	assert.Equal(t, "/", page.Path)
	assert.Empty(t, page.Parent)
	assert.Equal(t, "0 B", page.TotalSize)
}

func TestFilePresenter_ToStatView(t *testing.T) {
	entry := helpers.NewTestData().FileEntry("report.pdf", 10)

	view := NewFilePresenter(nil).ToStatView(&application.FileInfo{Entry: entry, MimeType: "application/pdf"})

	assert.Equal(t, "report.pdf", view.Path)
	assert.Equal(t, "file", view.Type)
	assert.Equal(t, "application/pdf", view.MimeType)
	assert.Equal(t, int64(10), *view.Size)
}

func TestFilePresenter_ToOperationViews(t *testing.T) {
	op := journal.NewOperation(journal.KindCopy, "/a", "/b", time.Now(), errors.New("conflict"))
	op.ID = 7
	op.CreatedAt = helpers.TestTime()

	views := NewFilePresenter(nil).ToOperationViews([]journal.Operation{op})

	require.Len(t, views, 1)
	assert.Equal(t, int64(7), views[0].ID)
	assert.Equal(t, "copy", views[0].Op)
	assert.Equal(t, "/b", views[0].Target)
	assert.Equal(t, "error", views[0].Status)
	assert.Equal(t, "conflict", views[0].Error)
	assert.Equal(t, "2024-03-04T10:20:30Z", views[0].CreatedAt)
}
