package filesystem

import (
	"context"
	"io"
)

// Reader groups the read-side operations of the filesystem contract.
type Reader interface {
	Has(ctx context.Context, path string) bool
	FileExists(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)
	ListContents(ctx context.Context, path string, recursive bool) ([]Entry, error)
	GetMetadata(ctx context.Context, path string) (*Entry, error)
	GetSize(ctx context.Context, path string) (*Entry, error)
	GetMimetype(path string) string
	MimeType(ctx context.Context, path string) (*Attributes, error)
	LastModified(ctx context.Context, path string) (*Attributes, error)
	FileSize(ctx context.Context, path string) (*Attributes, error)
	Visibility(ctx context.Context, path string) (*Attributes, error)
}

// Writer groups the mutating operations of the filesystem contract.
type Writer interface {
	Write(ctx context.Context, path string, contents []byte, cfg Config) (*Entry, error)
	WriteStream(ctx context.Context, path string, r io.Reader, cfg Config) (*Entry, error)
	Update(ctx context.Context, path string, contents []byte, cfg Config) (*Entry, error)
	UpdateStream(ctx context.Context, path string, r io.Reader, cfg Config) (*Entry, error)
	Rename(ctx context.Context, path, newPath string) error
	Move(ctx context.Context, source, destination string, cfg Config) error
	Copy(ctx context.Context, path, newPath string, cfg Config) error
	Delete(ctx context.Context, path string) error
	DeleteDir(ctx context.Context, path string) error
	DeleteDirectory(ctx context.Context, path string) error
	CreateDir(ctx context.Context, path string, cfg Config) error
	CreateDirectory(ctx context.Context, path string, cfg Config) error
	SetVisibility(ctx context.Context, path, visibility string) error
}

// Adapter is the uniform path-based filesystem contract implemented by
// remote storage backends.
type Adapter interface {
	Reader
	Writer
}
