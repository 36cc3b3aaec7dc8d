package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"spfs/domain/sharepoint"
)

// MockLibraryClient implements sharepointfs.Client for testing
type MockLibraryClient struct {
	mock.Mock
}

func (m *MockLibraryClient) Upload(ctx context.Context, path string, contents io.Reader) (sharepoint.RawEntry, error) {
	args := m.Called(ctx, path, contents)
	return args.Get(0).(sharepoint.RawEntry), args.Error(1)
}

func (m *MockLibraryClient) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockLibraryClient) Move(ctx context.Context, path, newPath, mimeType string) error {
	args := m.Called(ctx, path, newPath, mimeType)
	return args.Error(0)
}

func (m *MockLibraryClient) Copy(ctx context.Context, path, newPath, mimeType string) error {
	args := m.Called(ctx, path, newPath, mimeType)
	return args.Error(0)
}

func (m *MockLibraryClient) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockLibraryClient) CreateFolder(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockLibraryClient) GetMetadata(ctx context.Context, path, mimeType string) (sharepoint.RawEntry, error) {
	args := m.Called(ctx, path, mimeType)
	return args.Get(0).(sharepoint.RawEntry), args.Error(1)
}

func (m *MockLibraryClient) ListFolder(ctx context.Context, path string, recursive bool) ([]sharepoint.RawEntry, error) {
	args := m.Called(ctx, path, recursive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.RawEntry), args.Error(1)
}

// TrackingReadCloser records whether Close was called
type TrackingReadCloser struct {
	io.Reader
	Closed bool
}

func (t *TrackingReadCloser) Close() error {
	t.Closed = true
	return nil
}
