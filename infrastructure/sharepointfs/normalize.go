package sharepointfs

import (
	"strings"
	"time"

	"spfs/domain/filesystem"
	"spfs/domain/sharepoint"
)

// Layouts SharePoint uses for TimeLastModified and Modified.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeEntry converts a raw client record into a filesystem entry.
// library is the literal folder segment the entry path is taken relative to.
func NormalizeEntry(raw sharepoint.RawEntry, library string) filesystem.Entry {
	entry := filesystem.Entry{
		Path: relativePath(raw.ServerRelativeURL, library),
		Type: filesystem.TypeFile,
	}

	if raw.TimeLastModified != "" {
		entry.Timestamp = parseTimestamp(raw.TimeLastModified)
	} else if raw.Modified != "" {
		entry.Timestamp = parseTimestamp(raw.Modified)
	}

	if raw.Size != nil {
		size := *raw.Size
		entry.Size = &size
	}

	if raw.IsFolder() {
		entry.Type = filesystem.TypeDir
	}

	return entry
}

// relativePath returns the part of a server-relative URL after the library
// segment, without leading slashes. URLs outside the library keep their full
// path.
func relativePath(serverRelativeURL, library string) string {
	if library != "" {
		if _, after, found := strings.Cut(serverRelativeURL, library); found {
			return strings.TrimLeft(after, "/")
		}
	}
	return strings.TrimLeft(serverRelativeURL, "/")
}

func parseTimestamp(value string) *int64 {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			ts := t.Unix()
			return &ts
		}
	}
	return nil
}
