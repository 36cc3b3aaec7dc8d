package sharepointfs

import (
	"context"
	"io"

	"spfs/domain/sharepoint"
)

// Client performs the remote document library calls the adapter delegates to.
// Paths are server-relative to the library root and always start with a
// single slash. Authentication, retries and throttling are the client's concern.
type Client interface {
	Upload(ctx context.Context, path string, contents io.Reader) (sharepoint.RawEntry, error)
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Move(ctx context.Context, path, newPath, mimeType string) error
	Copy(ctx context.Context, path, newPath, mimeType string) error
	Delete(ctx context.Context, path string) error
	CreateFolder(ctx context.Context, path string) error
	GetMetadata(ctx context.Context, path, mimeType string) (sharepoint.RawEntry, error)

	// ListFolder returns the files of a folder, plus its sub-folders when
	// recursive is set.
	ListFolder(ctx context.Context, path string, recursive bool) ([]sharepoint.RawEntry, error)
}
