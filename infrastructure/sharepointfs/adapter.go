package sharepointfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"

	"spfs/domain/filesystem"
	"spfs/domain/sharepoint"
	"spfs/logging"
)

// Adapter maps the filesystem contract onto a SharePoint document library client.
// It keeps no state besides its configuration and is safe for concurrent use
// when the client is.
type Adapter struct {
	client  Client
	library string
	logger  *logging.Logger
}

var _ filesystem.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLibrary sets the library folder segment used to relativize server URLs.
func WithLibrary(name string) Option {
	return func(a *Adapter) {
		if name != "" {
			a.library = name
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger *logging.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an adapter over client.
func New(client Client, opts ...Option) *Adapter {
	a := &Adapter{
		client:  client,
		library: sharepoint.DefaultLibrary,
		logger:  logging.Default().WithComponent("sharepoint_fs"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Client returns the underlying document library client.
func (a *Adapter) Client() Client {
	return a.client
}

// Library returns the library folder segment entries are relativized against.
func (a *Adapter) Library() string {
	return a.library
}

func (a *Adapter) Write(ctx context.Context, path string, contents []byte, cfg filesystem.Config) (*filesystem.Entry, error) {
	return a.upload(ctx, path, bytes.NewReader(contents))
}

func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, cfg filesystem.Config) (*filesystem.Entry, error) {
	return a.upload(ctx, path, r)
}

func (a *Adapter) Update(ctx context.Context, path string, contents []byte, cfg filesystem.Config) (*filesystem.Entry, error) {
	return a.upload(ctx, path, bytes.NewReader(contents))
}

func (a *Adapter) UpdateStream(ctx context.Context, path string, r io.Reader, cfg filesystem.Config) (*filesystem.Entry, error) {
	return a.upload(ctx, path, r)
}

func (a *Adapter) upload(ctx context.Context, path string, contents io.Reader) (*filesystem.Entry, error) {
	path = ApplyPathPrefix(path)

	raw, err := a.client.Upload(ctx, path, contents)
	if err != nil {
		return nil, err
	}

	entry := a.normalize(raw)
	return &entry, nil
}

// Read materializes the whole file in memory and releases the stream.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.ReadStream(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// ReadStream opens the remote file. The caller must close the returned stream.
func (a *Adapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	return a.client.Download(ctx, ApplyPathPrefix(path))
}

func (a *Adapter) Rename(ctx context.Context, path, newPath string) error {
	path = ApplyPathPrefix(path)
	mimeType := a.GetMimetype(path)
	newPath = ApplyPathPrefix(newPath)

	return a.client.Move(ctx, path, newPath, mimeType)
}

func (a *Adapter) Move(ctx context.Context, source, destination string, cfg filesystem.Config) error {
	return a.Rename(ctx, source, destination)
}

// Copy uses the caller-supplied media type; the source is not inspected.
func (a *Adapter) Copy(ctx context.Context, path, newPath string, cfg filesystem.Config) error {
	path = ApplyPathPrefix(path)
	newPath = ApplyPathPrefix(newPath)

	return a.client.Copy(ctx, path, newPath, cfg.MimeType)
}

func (a *Adapter) Delete(ctx context.Context, path string) error {
	return a.client.Delete(ctx, ApplyPathPrefix(path))
}

func (a *Adapter) DeleteDir(ctx context.Context, path string) error {
	return a.Delete(ctx, path)
}

func (a *Adapter) DeleteDirectory(ctx context.Context, path string) error {
	return a.DeleteDir(ctx, path)
}

func (a *Adapter) CreateDir(ctx context.Context, path string, cfg filesystem.Config) error {
	return a.client.CreateFolder(ctx, ApplyPathPrefix(path))
}

func (a *Adapter) CreateDirectory(ctx context.Context, path string, cfg filesystem.Config) error {
	return a.CreateDir(ctx, path, cfg)
}

// Has reports whether the path exists. Any client failure counts as absence.
func (a *Adapter) Has(ctx context.Context, path string) bool {
	path = ApplyPathPrefix(path)

	raw, err := a.client.GetMetadata(ctx, path, a.GetMimetype(path))
	if err != nil {
		a.logger.Filesystem("Existence check failed", "path", path, "error", err.Error())
		return false
	}

	return !raw.Empty()
}

func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	return a.Has(ctx, path), nil
}

// ListContents lists a folder. When recursive is set every folder returned
// by the client is descended into and its entries follow it in the result.
// A sub-folder's Name is resolved relative to the folder being listed.
func (a *Adapter) ListContents(ctx context.Context, path string, recursive bool) ([]filesystem.Entry, error) {
	path = ApplyPathPrefix(path)

	raws, err := a.client.ListFolder(ctx, path, recursive)
	if err != nil {
		return nil, err
	}

	entries := make([]filesystem.Entry, 0, len(raws))
	for _, raw := range raws {
		entries = append(entries, a.normalize(raw))

		if !recursive || !raw.IsFolder() {
			continue
		}
		if raw.Name == "" || raw.Name == "." || raw.Name == ".." {
			a.logger.Filesystem("Skipping folder without usable name", "path", path, "url", raw.ServerRelativeURL)
			continue
		}

		children, err := a.ListContents(ctx, childPath(path, raw.Name), true)
		if err != nil {
			return nil, err
		}
		entries = append(entries, children...)
	}

	return entries, nil
}

func (a *Adapter) GetMetadata(ctx context.Context, path string) (*filesystem.Entry, error) {
	path = ApplyPathPrefix(path)

	raw, err := a.client.GetMetadata(ctx, path, a.GetMimetype(path))
	if err != nil {
		return nil, err
	}

	entry := a.normalize(raw)
	return &entry, nil
}

func (a *Adapter) GetSize(ctx context.Context, path string) (*filesystem.Entry, error) {
	return a.GetMetadata(ctx, path)
}

// GetMimetype derives the media type from the path's extension only.
func (a *Adapter) GetMimetype(path string) string {
	return MimeTypeFromFilename(path)
}

func (a *Adapter) MimeType(ctx context.Context, path string) (*filesystem.Attributes, error) {
	mimeType := a.GetMimetype(path)
	if mimeType == "" {
		return nil, &fs.PathError{Op: "mimetype", Path: path, Err: filesystem.ErrMissingAttribute}
	}
	return &filesystem.Attributes{Path: path, MimeType: mimeType}, nil
}

func (a *Adapter) LastModified(ctx context.Context, path string) (*filesystem.Attributes, error) {
	entry, err := a.GetMetadata(ctx, path)
	if err != nil {
		return nil, err
	}
	if entry.Timestamp == nil {
		return nil, &fs.PathError{Op: "lastmodified", Path: path, Err: filesystem.ErrMissingAttribute}
	}
	return &filesystem.Attributes{Path: entry.Path, LastModified: entry.Timestamp}, nil
}

func (a *Adapter) FileSize(ctx context.Context, path string) (*filesystem.Attributes, error) {
	entry, err := a.GetMetadata(ctx, path)
	if err != nil {
		return nil, err
	}
	if entry.IsDir() || entry.Size == nil {
		return nil, &fs.PathError{Op: "filesize", Path: path, Err: filesystem.ErrMissingAttribute}
	}
	return &filesystem.Attributes{Path: entry.Path, FileSize: entry.Size}, nil
}

// Visibility is not modelled by document libraries.
func (a *Adapter) Visibility(ctx context.Context, path string) (*filesystem.Attributes, error) {
	return nil, &fs.PathError{Op: "visibility", Path: path, Err: filesystem.ErrUnsupported}
}

func (a *Adapter) SetVisibility(ctx context.Context, path, visibility string) error {
	return &fs.PathError{Op: "setvisibility", Path: path, Err: fmt.Errorf("%w: visibility %q", filesystem.ErrUnsupported, visibility)}
}

func (a *Adapter) normalize(raw sharepoint.RawEntry) filesystem.Entry {
	return NormalizeEntry(raw, a.library)
}
