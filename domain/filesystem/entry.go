package filesystem

// EntryType classifies a normalized entry.
type EntryType string

const (
	TypeFile EntryType = "file"
	TypeDir  EntryType = "dir"
)

// Entry is the adapter's canonical metadata record for a file or directory.
// Optional values are nil when the remote service did not report them.
type Entry struct {
	Path      string    `json:"path"`
	Timestamp *int64    `json:"timestamp,omitempty"` // Unix seconds
	Size      *int64    `json:"size,omitempty"`
	Type      EntryType `json:"type"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == TypeDir
}

// Bytes mirrors Size; both names are exposed to callers of the filesystem contract.
func (e Entry) Bytes() *int64 {
	return e.Size
}

// Attributes carries a single projected attribute set for a path.
type Attributes struct {
	Path         string `json:"path"`
	FileSize     *int64 `json:"file_size,omitempty"`
	Visibility   string `json:"visibility,omitempty"`
	LastModified *int64 `json:"last_modified,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
}

// Config carries per-call options for write, copy and directory operations.
type Config struct {
	MimeType   string
	Visibility string
}
