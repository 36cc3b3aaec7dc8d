package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"spfs/domain/filesystem"
	"spfs/domain/journal"
)

// MockAdapter implements filesystem.Adapter for testing
type MockAdapter struct {
	mock.Mock
}

func entryResult(args mock.Arguments) (*filesystem.Entry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesystem.Entry), args.Error(1)
}

func attributesResult(args mock.Arguments) (*filesystem.Attributes, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesystem.Attributes), args.Error(1)
}

func (m *MockAdapter) Has(ctx context.Context, path string) bool {
	args := m.Called(ctx, path)
	return args.Bool(0)
}

func (m *MockAdapter) FileExists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdapter) Read(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAdapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockAdapter) ListContents(ctx context.Context, path string, recursive bool) ([]filesystem.Entry, error) {
	args := m.Called(ctx, path, recursive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]filesystem.Entry), args.Error(1)
}

func (m *MockAdapter) GetMetadata(ctx context.Context, path string) (*filesystem.Entry, error) {
	return entryResult(m.Called(ctx, path))
}

func (m *MockAdapter) GetSize(ctx context.Context, path string) (*filesystem.Entry, error) {
	return entryResult(m.Called(ctx, path))
}

func (m *MockAdapter) GetMimetype(path string) string {
	args := m.Called(path)
	return args.String(0)
}

func (m *MockAdapter) MimeType(ctx context.Context, path string) (*filesystem.Attributes, error) {
	return attributesResult(m.Called(ctx, path))
}

func (m *MockAdapter) LastModified(ctx context.Context, path string) (*filesystem.Attributes, error) {
	return attributesResult(m.Called(ctx, path))
}

func (m *MockAdapter) FileSize(ctx context.Context, path string) (*filesystem.Attributes, error) {
	return attributesResult(m.Called(ctx, path))
}

func (m *MockAdapter) Visibility(ctx context.Context, path string) (*filesystem.Attributes, error) {
	return attributesResult(m.Called(ctx, path))
}

func (m *MockAdapter) Write(ctx context.Context, path string, contents []byte, cfg filesystem.Config) (*filesystem.Entry, error) {
	return entryResult(m.Called(ctx, path, contents, cfg))
}

// WriteStream drains r before recording the call so tests can assert on the uploaded bytes.
func (m *MockAdapter) WriteStream(ctx context.Context, path string, r io.Reader, cfg filesystem.Config) (*filesystem.Entry, error) {
	body, _ := io.ReadAll(r)
	return entryResult(m.Called(ctx, path, body, cfg))
}

func (m *MockAdapter) Update(ctx context.Context, path string, contents []byte, cfg filesystem.Config) (*filesystem.Entry, error) {
	return entryResult(m.Called(ctx, path, contents, cfg))
}

func (m *MockAdapter) UpdateStream(ctx context.Context, path string, r io.Reader, cfg filesystem.Config) (*filesystem.Entry, error) {
	body, _ := io.ReadAll(r)
	return entryResult(m.Called(ctx, path, body, cfg))
}

func (m *MockAdapter) Rename(ctx context.Context, path, newPath string) error {
	return m.Called(ctx, path, newPath).Error(0)
}

func (m *MockAdapter) Move(ctx context.Context, source, destination string, cfg filesystem.Config) error {
	return m.Called(ctx, source, destination, cfg).Error(0)
}

func (m *MockAdapter) Copy(ctx context.Context, path, newPath string, cfg filesystem.Config) error {
	return m.Called(ctx, path, newPath, cfg).Error(0)
}

func (m *MockAdapter) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockAdapter) DeleteDir(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockAdapter) DeleteDirectory(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockAdapter) CreateDir(ctx context.Context, path string, cfg filesystem.Config) error {
	return m.Called(ctx, path, cfg).Error(0)
}

func (m *MockAdapter) CreateDirectory(ctx context.Context, path string, cfg filesystem.Config) error {
	return m.Called(ctx, path, cfg).Error(0)
}

func (m *MockAdapter) SetVisibility(ctx context.Context, path, visibility string) error {
	return m.Called(ctx, path, visibility).Error(0)
}

// MockOperationRepository implements contracts.OperationRepository for testing
type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) Record(ctx context.Context, op journal.Operation) (int64, error) {
	args := m.Called(ctx, op)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOperationRepository) Recent(ctx context.Context, limit int) ([]journal.Operation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]journal.Operation), args.Error(1)
}

func (m *MockOperationRepository) ForPath(ctx context.Context, path string, limit int) ([]journal.Operation, error) {
	args := m.Called(ctx, path, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]journal.Operation), args.Error(1)
}

func (m *MockOperationRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
