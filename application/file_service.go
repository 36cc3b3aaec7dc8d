package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync/atomic"
	"time"

	"spfs/domain/contracts"
	"spfs/domain/events"
	"spfs/domain/filesystem"
	"spfs/domain/journal"
	"spfs/infrastructure/metrics"
	"spfs/logging"
)

// ErrReadOnly is returned for mutating calls when the gateway is configured read-only.
var ErrReadOnly = fmt.Errorf("document library is read-only: %w", fs.ErrPermission)

// DefaultHistoryLimit caps journal queries that do not ask for a size.
const DefaultHistoryLimit = 50

// FileInfo is the metadata view returned by Stat.
type FileInfo struct {
	filesystem.Entry
	MimeType string `json:"mime_type,omitempty"`
}

// Download is an open remote file stream plus the media type to serve it with.
type Download struct {
	io.ReadCloser
	MimeType string
}

// FileServiceOption configures a FileService.
type FileServiceOption func(*FileService)

// WithReadOnly rejects every mutating call with ErrReadOnly.
func WithReadOnly(readOnly bool) FileServiceOption {
	return func(s *FileService) { s.readOnly = readOnly }
}

// WithDefaultMimeType sets the media type used when a file extension is unknown.
func WithDefaultMimeType(mimeType string) FileServiceOption {
	return func(s *FileService) { s.defaultMimeType = mimeType }
}

// WithPublisher announces successful mutations on publisher.
func WithPublisher(publisher events.ChangePublisher) FileServiceOption {
	return func(s *FileService) { s.publisher = publisher }
}

// FileService fronts a filesystem adapter for the HTTP gateway, adding logging,
// metrics and an operation journal for mutating calls.
type FileService struct {
	adapter         filesystem.Adapter
	journal         contracts.OperationRepository
	publisher       events.ChangePublisher
	logger          *logging.Logger
	readOnly        bool
	defaultMimeType string
}

// NewFileService creates a file service. operations may be nil to disable journaling.
func NewFileService(
	adapter filesystem.Adapter,
	operations contracts.OperationRepository,
	logger *logging.Logger,
	opts ...FileServiceOption,
) *FileService {
	if logger == nil {
		logger = logging.Default()
	}
	s := &FileService{
		adapter:         adapter,
		journal:         operations,
		logger:          logger.WithComponent("file_service"),
		defaultMimeType: "application/octet-stream",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadOnly reports whether mutations are rejected.
func (s *FileService) ReadOnly() bool {
	return s.readOnly
}

// List returns the entries under path.
func (s *FileService) List(ctx context.Context, path string, recursive bool) ([]filesystem.Entry, error) {
	start := time.Now()
	entries, err := s.adapter.ListContents(ctx, path, recursive)
	s.observe(ctx, journal.KindList, path, "", start, err, slog.Bool("recursive", recursive), slog.Int("entries", len(entries)))
	if err != nil {
		return nil, err
	}
	metrics.RecordListing(len(entries))
	return entries, nil
}

// Stat returns metadata for path along with its extension-derived media type.
func (s *FileService) Stat(ctx context.Context, path string) (*FileInfo, error) {
	start := time.Now()
	entry, err := s.adapter.GetMetadata(ctx, path)
	s.observe(ctx, journal.KindStat, path, "", start, err)
	if err != nil {
		return nil, err
	}
	info := &FileInfo{Entry: *entry}
	if !entry.IsDir() {
		info.MimeType = s.adapter.GetMimetype(path)
	}
	return info, nil
}

// Exists reports whether path is present; lookup failures count as absent.
func (s *FileService) Exists(ctx context.Context, path string) bool {
	exists, _ := s.adapter.FileExists(ctx, path)
	return exists
}

// Open streams the file at path. The caller must close the returned Download.
func (s *FileService) Open(ctx context.Context, path string) (*Download, error) {
	start := time.Now()
	stream, err := s.adapter.ReadStream(ctx, path)
	s.observe(ctx, journal.KindRead, path, "", start, err)
	if err != nil {
		return nil, err
	}

	mimeType := s.adapter.GetMimetype(path)
	if mimeType == "" {
		mimeType = s.defaultMimeType
	}
	return &Download{
		ReadCloser: &countingReadCloser{ReadCloser: stream, onClose: metrics.RecordDownload},
		MimeType:   mimeType,
	}, nil
}

// Upload writes r to path, replacing any existing file.
func (s *FileService) Upload(ctx context.Context, path string, r io.Reader) (*filesystem.Entry, error) {
	if s.readOnly {
		return nil, s.reject(journal.KindWrite, path)
	}

	start := time.Now()
	counter := &countingReader{Reader: r}
	entry, err := s.adapter.WriteStream(ctx, path, counter, filesystem.Config{MimeType: s.adapter.GetMimetype(path)})
	written := counter.n.Load()
	s.observe(ctx, journal.KindWrite, path, "", start, err, slog.Int64("bytes", written))
	s.record(ctx, journal.NewOperation(journal.KindWrite, path, "", start, err).WithBytes(written))
	if err != nil {
		return nil, err
	}
	metrics.RecordUpload(written)
	return entry, nil
}

// Copy duplicates from into to. An empty mimeType is derived from the source extension.
func (s *FileService) Copy(ctx context.Context, from, to, mimeType string) error {
	if s.readOnly {
		return s.reject(journal.KindCopy, from)
	}
	if mimeType == "" {
		mimeType = s.adapter.GetMimetype(from)
	}

	start := time.Now()
	err := s.adapter.Copy(ctx, from, to, filesystem.Config{MimeType: mimeType})
	s.observe(ctx, journal.KindCopy, from, to, start, err)
	s.record(ctx, journal.NewOperation(journal.KindCopy, from, to, start, err))
	return err
}

// Move relocates from to to.
func (s *FileService) Move(ctx context.Context, from, to string) error {
	if s.readOnly {
		return s.reject(journal.KindMove, from)
	}

	start := time.Now()
	err := s.adapter.Move(ctx, from, to, filesystem.Config{})
	s.observe(ctx, journal.KindMove, from, to, start, err)
	s.record(ctx, journal.NewOperation(journal.KindMove, from, to, start, err))
	return err
}

// Delete removes the file at path.
func (s *FileService) Delete(ctx context.Context, path string) error {
	if s.readOnly {
		return s.reject(journal.KindDelete, path)
	}

	start := time.Now()
	err := s.adapter.Delete(ctx, path)
	s.observe(ctx, journal.KindDelete, path, "", start, err)
	s.record(ctx, journal.NewOperation(journal.KindDelete, path, "", start, err))
	return err
}

// CreateDir creates the folder at path.
func (s *FileService) CreateDir(ctx context.Context, path string) error {
	if s.readOnly {
		return s.reject(journal.KindMkdir, path)
	}

	start := time.Now()
	err := s.adapter.CreateDir(ctx, path, filesystem.Config{})
	s.observe(ctx, journal.KindMkdir, path, "", start, err)
	s.record(ctx, journal.NewOperation(journal.KindMkdir, path, "", start, err))
	return err
}

// DeleteDir removes the folder at path and everything below it.
func (s *FileService) DeleteDir(ctx context.Context, path string) error {
	if s.readOnly {
		return s.reject(journal.KindRmdir, path)
	}

	start := time.Now()
	err := s.adapter.DeleteDir(ctx, path)
	s.observe(ctx, journal.KindRmdir, path, "", start, err)
	s.record(ctx, journal.NewOperation(journal.KindRmdir, path, "", start, err))
	return err
}

// History returns journal entries for path, or the most recent entries when path is empty.
func (s *FileService) History(ctx context.Context, path string, limit int) ([]journal.Operation, error) {
	if s.journal == nil {
		return []journal.Operation{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if path == "" {
		return s.journal.Recent(ctx, limit)
	}
	return s.journal.ForPath(ctx, journal.CanonicalPath(path), limit)
}

func (s *FileService) observe(ctx context.Context, kind journal.Kind, path, target string, start time.Time, err error, attrs ...slog.Attr) {
	duration := time.Since(start)
	metrics.RecordOperation(string(kind), duration, err)

	if target != "" {
		attrs = append(attrs, slog.String("target", target))
	}
	attrs = append(attrs, slog.Int64("duration_ms", duration.Milliseconds()))
	s.logger.WithContext(ctx).Operation(string(kind), path, err, attrs...)
}

// record writes op to the journal and announces it when it succeeded.
// Only mutating kinds are recorded. Journal failures are logged and counted, never returned.
func (s *FileService) record(ctx context.Context, op journal.Operation) {
	if !op.Kind.Mutating() {
		return
	}
	if s.publisher != nil && op.Status == journal.StatusOK {
		s.publisher.PublishChange(events.ChangeEvent{Operation: op, Timestamp: time.Now()})
	}
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Record(ctx, op); err != nil {
		metrics.RecordJournalFailure()
		s.logger.WithContext(ctx).Error("Failed to record operation",
			"op", op.Kind,
			"path", op.Path,
			"error", err)
	}
}

func (s *FileService) reject(kind journal.Kind, path string) error {
	err := &fs.PathError{Op: string(kind), Path: path, Err: ErrReadOnly}
	s.logger.Warn("Rejected mutation on read-only library", "op", kind, "path", path)
	return err
}

// IsReadOnly reports whether err came from a read-only rejection.
func IsReadOnly(err error) bool {
	return errors.Is(err, ErrReadOnly)
}

type countingReader struct {
	io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.n.Add(int64(n))
	return n, err
}

type countingReadCloser struct {
	io.ReadCloser
	n       int64
	onClose func(int64)
}

func (c *countingReadCloser) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReadCloser) Close() error {
	if c.onClose != nil {
		c.onClose(c.n)
		c.onClose = nil
	}
	return c.ReadCloser.Close()
}
