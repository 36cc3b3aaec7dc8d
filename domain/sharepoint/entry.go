package sharepoint

import "strings"

// SharePoint metadata type tags for document library objects.
const (
	TypeFolder = "SP.Folder"
	TypeFile   = "SP.File"
)

// DefaultLibrary is the server-relative folder name of the default document library.
const DefaultLibrary = "Shared Documents"

// EntryMetadata is the OData __metadata block attached to REST objects.
type EntryMetadata struct {
	Type string `json:"type"`
}

// RawEntry is the metadata record a document library client returns for a
// file or folder. Timestamps are kept as the strings SharePoint sent.
type RawEntry struct {
	Metadata          EntryMetadata `json:"__metadata"`
	Name              string        `json:"Name,omitempty"`
	ServerRelativeURL string        `json:"ServerRelativeUrl"`
	TimeLastModified  string        `json:"TimeLastModified,omitempty"`
	Modified          string        `json:"Modified,omitempty"`
	Size              *int64        `json:"size,omitempty"`
}

// IsFolder reports whether the record describes a folder.
func (r RawEntry) IsFolder() bool {
	return r.Metadata.Type == TypeFolder
}

// Empty reports whether the record carries no data at all.
func (r RawEntry) Empty() bool {
	return strings.TrimSpace(r.ServerRelativeURL) == "" &&
		r.Metadata.Type == "" &&
		r.Name == "" &&
		r.TimeLastModified == "" &&
		r.Modified == "" &&
		r.Size == nil
}
