// Package presenters transforms domain data into UI-ready view models.
package presenters

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"spfs/application"
	"spfs/domain/filesystem"
	"spfs/domain/journal"
	"spfs/interfaces/web/templates/components/ui"
)

// EntryView is the JSON shape of a listed entry.
type EntryView struct {
	Path      string `json:"path"`
	Type      string `json:"type"`
	Size      *int64 `json:"size,omitempty"`
	Timestamp *int64 `json:"timestamp,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}

// ListingView is the JSON response for a directory listing.
type ListingView struct {
	Path      string      `json:"path"`
	Recursive bool        `json:"recursive"`
	Entries   []EntryView `json:"entries"`
}

// OperationView is the JSON shape of a journal row.
type OperationView struct {
	ID         int64  `json:"id"`
	Op         string `json:"op"`
	Path       string `json:"path"`
	Target     string `json:"target,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Bytes      *int64 `json:"bytes,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// FilePresenter formats filesystem entries and journal rows for the gateway.
type FilePresenter struct {
	mimeType func(string) string
}

// NewFilePresenter creates a file presenter. mimeType resolves file extensions for display.
func NewFilePresenter(mimeType func(string) string) *FilePresenter {
	if mimeType == nil {
		mimeType = func(string) string { return "" }
	}
	return &FilePresenter{mimeType: mimeType}
}

// ToListingView converts adapter entries to the JSON listing.
func (p *FilePresenter) ToListingView(dir string, recursive bool, entries []filesystem.Entry) *ListingView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		view := EntryView{Path: e.Path, Type: string(e.Type), Size: e.Size, Timestamp: e.Timestamp}
		if !e.IsDir() {
			view.MimeType = p.mimeType(e.Path)
		}
		views = append(views, view)
	}
	return &ListingView{Path: dir, Recursive: recursive, Entries: views}
}

// ToListingPage builds the HTML view model. Folders sort before files, then by path.
func (p *FilePresenter) ToListingPage(dir string, recursive bool, entries []filesystem.Entry) ui.ListingPage {
	sorted := make([]filesystem.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsDir() != sorted[j].IsDir() {
			return sorted[i].IsDir()
		}
		return sorted[i].Path < sorted[j].Path
	})

	page := ui.ListingPage{
		Path:      "/" + strings.Trim(dir, "/"),
		Recursive: recursive,
		Rows:      make([]ui.ListingRow, 0, len(sorted)),
	}
	if page.Path != "/" {
		page.Parent = path.Dir(page.Path)
	}

	var totalBytes uint64
	for _, e := range sorted {
		row := ui.ListingRow{
			Name:  path.Base(e.Path),
			Path:  "/" + e.Path,
			IsDir: e.IsDir(),
		}
		if e.Timestamp != nil {
			row.Modified = time.Unix(*e.Timestamp, 0).UTC().Format("2006-01-02 15:04")
		}
		if e.IsDir() {
			page.TotalDirs++
		} else {
			page.TotalFiles++
			if e.Size != nil && *e.Size >= 0 {
				row.Size = humanize.Bytes(uint64(*e.Size))
				totalBytes += uint64(*e.Size)
			}
		}
		page.Rows = append(page.Rows, row)
	}
	page.TotalSize = humanize.Bytes(totalBytes)
	return page
}

// ToStatView converts a Stat result to its JSON shape.
func (p *FilePresenter) ToStatView(info *application.FileInfo) EntryView {
	return EntryView{
		Path:      info.Path,
		Type:      string(info.Type),
		Size:      info.Size,
		Timestamp: info.Timestamp,
		MimeType:  info.MimeType,
	}
}

// ToOperationViews converts journal rows to their JSON shape.
func (p *FilePresenter) ToOperationViews(ops []journal.Operation) []OperationView {
	views := make([]OperationView, 0, len(ops))
	for _, op := range ops {
		views = append(views, OperationView{
			ID:         op.ID,
			Op:         string(op.Kind),
			Path:       op.Path,
			Target:     op.Target,
			Status:     string(op.Status),
			Error:      op.Error,
			Bytes:      op.Bytes,
			DurationMs: op.DurationMs(),
			CreatedAt:  op.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return views
}
