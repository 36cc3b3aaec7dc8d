package helpers

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"spfs/domain/filesystem"
	"spfs/domain/journal"
	"spfs/domain/sharepoint"
	"spfs/logging"
	"spfs/test/mocks"
)

// LibraryRoot is the server-relative URL test entries live under
const LibraryRoot = "/sites/test/Shared Documents"

// MockClients holds the client mocks for easy injection
type MockClients struct {
	Library *mocks.MockLibraryClient
}

// NewMockClients creates a new set of client mocks
func NewMockClients() *MockClients {
	return &MockClients{
		Library: &mocks.MockLibraryClient{},
	}
}

// ExpectListing sets up expectations for a folder listing
func (m *MockClients) ExpectListing(dir string, recursive bool, entries []sharepoint.RawEntry) {
	m.Library.On("ListFolder", mock.Anything, dir, recursive).Return(entries, nil)
}

// ExpectMetadata sets up expectations for a metadata lookup
func (m *MockClients) ExpectMetadata(p, mimeType string, entry sharepoint.RawEntry) {
	m.Library.On("GetMetadata", mock.Anything, p, mimeType).Return(entry, nil)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockClients) AssertAllExpectations(t mock.TestingT) {
	m.Library.AssertExpectations(t)
}

// MockServices holds the collaborators of the file service
type MockServices struct {
	Adapter *mocks.MockAdapter
	Journal *mocks.MockOperationRepository
}

// NewMockServices creates a new set of service-level mocks
func NewMockServices() *MockServices {
	return &MockServices{
		Adapter: &mocks.MockAdapter{},
		Journal: &mocks.MockOperationRepository{},
	}
}

// ExpectMimetype sets up the extension lookup for p
func (m *MockServices) ExpectMimetype(p, mimeType string) {
	m.Adapter.On("GetMimetype", p).Return(mimeType)
}

// ExpectJournal expects one journal record of kind for path with the given status
func (m *MockServices) ExpectJournal(kind journal.Kind, p string, status journal.Status) {
	m.Journal.On("Record", mock.Anything, mock.MatchedBy(func(op journal.Operation) bool {
		return op.Kind == kind && op.Path == journal.CanonicalPath(p) && op.Status == status
	})).Return(int64(1), nil).Once()
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockServices) AssertAllExpectations(t mock.TestingT) {
	m.Adapter.AssertExpectations(t)
	m.Journal.AssertExpectations(t)
}

// TestData provides simple builders for test data
type TestData struct{}

// NewTestData creates a test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// File creates a raw file record under the test library
func (td *TestData) File(relPath string, size int64, modified time.Time) sharepoint.RawEntry {
	relPath = strings.Trim(relPath, "/")
	return sharepoint.RawEntry{
		Metadata:          sharepoint.EntryMetadata{Type: sharepoint.TypeFile},
		Name:              path.Base(relPath),
		ServerRelativeURL: LibraryRoot + "/" + relPath,
		TimeLastModified:  modified.UTC().Format(time.RFC3339),
		Size:              &size,
	}
}

// Folder creates a raw folder record under the test library
func (td *TestData) Folder(relPath string) sharepoint.RawEntry {
	relPath = strings.Trim(relPath, "/")
	return sharepoint.RawEntry{
		Metadata:          sharepoint.EntryMetadata{Type: sharepoint.TypeFolder},
		Name:              path.Base(relPath),
		ServerRelativeURL: LibraryRoot + "/" + relPath,
	}
}

// FileEntry creates a normalized file entry
func (td *TestData) FileEntry(p string, size int64) filesystem.Entry {
	ts := TestTime().Unix()
	return filesystem.Entry{Path: p, Type: filesystem.TypeFile, Size: &size, Timestamp: &ts}
}

// DirEntry creates a normalized folder entry
func (td *TestData) DirEntry(p string) filesystem.Entry {
	return filesystem.Entry{Path: p, Type: filesystem.TypeDir}
}

// TestLogger returns a logger that writes nowhere
func TestLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "discard"})
}

// Helper for common test context
func TestContext() context.Context {
	return context.Background()
}

// Helper for time-based tests
func TestTime() time.Time {
	return time.Date(2024, time.March, 4, 10, 20, 30, 0, time.UTC)
}
