package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// ListingRow is one entry in the directory listing table.
type ListingRow struct {
	Name     string
	Path     string
	IsDir    bool
	Size     string
	Modified string
}

// ListingPage is the view model for the directory listing page.
type ListingPage struct {
	Path       string
	Parent     string
	Recursive  bool
	Rows       []ListingRow
	TotalFiles int
	TotalDirs  int
	TotalSize  string
}

// Listing renders a directory listing as a standalone HTML page.
func Listing(page ListingPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		fmt.Fprintf(&b, `<title>%s</title>`, templ.EscapeString(page.Path))
		b.WriteString(`<link rel="stylesheet" href="/assets/listing.css"></head><body>`)
		fmt.Fprintf(&b, `<h1 class="listing-path">%s</h1>`, templ.EscapeString(page.Path))

		if page.Parent != "" {
			fmt.Fprintf(&b, `<p><a class="listing-parent" href="%s">..</a></p>`, listHref(page.Parent, page.Recursive))
		}

		b.WriteString(`<table class="listing"><thead><tr><th>Name</th><th>Size</th><th>Modified</th></tr></thead><tbody>`)
		if len(page.Rows) == 0 {
			b.WriteString(`<tr><td colspan="3" class="listing-empty">Empty folder</td></tr>`)
		}
		for _, row := range page.Rows {
			writeRow(&b, row, page.Recursive)
		}
		b.WriteString(`</tbody></table>`)

		fmt.Fprintf(&b, `<p class="listing-summary">%d folders, %d files, %s</p>`,
			page.TotalDirs, page.TotalFiles, templ.EscapeString(page.TotalSize))
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeRow(b *strings.Builder, row ListingRow, recursive bool) {
	class, href, name := "file", fileHref(row.Path), row.Name
	if row.IsDir {
		class, href, name = "dir", listHref(row.Path, recursive), row.Name+"/"
	}
	fmt.Fprintf(b, `<tr class="%s"><td><a href="%s">%s</a></td><td>%s</td><td>%s</td></tr>`,
		class,
		href,
		templ.EscapeString(name),
		templ.EscapeString(row.Size),
		templ.EscapeString(row.Modified))
}

func listHref(p string, recursive bool) string {
	q := url.Values{"path": {p}}
	if recursive {
		q.Set("recursive", "true")
	}
	return templ.EscapeString("/fs/list?" + q.Encode())
}

func fileHref(p string) string {
	return templ.EscapeString("/fs/file?" + url.Values{"path": {p}}.Encode())
}
