package application

import (
	"context"
	"io"

	"spfs/domain/filesystem"
	"spfs/domain/journal"
)

// FileOperations defines the file operations the HTTP gateway depends on.
type FileOperations interface {
	// Read side
	List(ctx context.Context, path string, recursive bool) ([]filesystem.Entry, error)
	Stat(ctx context.Context, path string) (*FileInfo, error)
	Exists(ctx context.Context, path string) bool
	Open(ctx context.Context, path string) (*Download, error)

	// Mutations, journaled
	Upload(ctx context.Context, path string, r io.Reader) (*filesystem.Entry, error)
	Copy(ctx context.Context, from, to, mimeType string) error
	Move(ctx context.Context, from, to string) error
	Delete(ctx context.Context, path string) error
	CreateDir(ctx context.Context, path string) error
	DeleteDir(ctx context.Context, path string) error

	// Journal
	History(ctx context.Context, path string, limit int) ([]journal.Operation, error)
	ReadOnly() bool
}

var _ FileOperations = (*FileService)(nil)
