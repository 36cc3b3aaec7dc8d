package presenters

import (
	"spfs/application"
	"spfs/domain/filesystem"
	"spfs/domain/journal"
	"spfs/interfaces/web/templates/components/ui"
)

// FilePresenterInterface defines the contract for file presentation logic.
type FilePresenterInterface interface {
	ToListingView(dir string, recursive bool, entries []filesystem.Entry) *ListingView
	ToListingPage(dir string, recursive bool, entries []filesystem.Entry) ui.ListingPage
	ToStatView(info *application.FileInfo) EntryView
	ToOperationViews(ops []journal.Operation) []OperationView
}

// Ensure FilePresenter implements the interface.
var _ FilePresenterInterface = (*FilePresenter)(nil)
