package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"spfs/application"
	"spfs/interfaces/web/presenters"
	"spfs/interfaces/web/templates/components/ui"
	"spfs/logging"
)

// transferRequest is the body of copy and move calls.
type transferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Mime string `json:"mime,omitempty"`
}

// FileHandlers exposes the document library over HTTP.
// Thin orchestration: filesystem semantics live in the file service.
type FileHandlers struct {
	files     application.FileOperations
	presenter presenters.FilePresenterInterface
	logger    *logging.Logger
}

// NewFileHandlers creates file handlers backed by files.
func NewFileHandlers(
	files application.FileOperations,
	presenter presenters.FilePresenterInterface,
) *FileHandlers {
	return &FileHandlers{
		files:     files,
		presenter: presenter,
		logger:    logging.Default().WithComponent("file_handler"),
	}
}

// List returns the contents of a folder as JSON, or an HTML page for browsers.
func (h *FileHandlers) List(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("path")
	if dir == "" {
		dir = "/"
	}
	// sub-folders only come back on recursive listings, so browsers default to one
	html := wantsHTML(r)
	recursive, err := queryBool(r, "recursive", html)
	if err != nil {
		writeError(w, http.StatusBadRequest, "recursive must be a boolean")
		return
	}

	entries, err := h.files.List(r.Context(), dir, recursive)
	if err != nil {
		h.fail(w, r, "list", dir, err)
		return
	}

	if html {
		RenderResponse(r.Context(), w, r, ui.Listing(h.presenter.ToListingPage(dir, recursive, entries)))
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.ToListingView(dir, recursive, entries))
}

// Stat returns metadata for a single path.
func (h *FileHandlers) Stat(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPath(w, r)
	if !ok {
		return
	}

	info, err := h.files.Stat(r.Context(), p)
	if err != nil {
		h.fail(w, r, "stat", p, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.ToStatView(info))
}

// Head reports existence with 200 or 404 and no body.
func (h *FileHandlers) Head(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimSpace(r.URL.Query().Get("path"))
	if p == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !h.files.Exists(r.Context(), p) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Download streams file content with its extension-derived media type.
func (h *FileHandlers) Download(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPath(w, r)
	if !ok {
		return
	}

	download, err := h.files.Open(r.Context(), p)
	if err != nil {
		h.fail(w, r, "read", p, err)
		return
	}
	defer download.Close()

	w.Header().Set("Content-Type", download.MimeType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, download); err != nil {
		h.logger.WithContext(r.Context()).Warn("Download interrupted", "path", p, "error", err)
	}
}

// Upload writes the request body to path.
func (h *FileHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPath(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()

	entry, err := h.files.Upload(r.Context(), p, r.Body)
	if err != nil {
		h.fail(w, r, "write", p, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Copy duplicates a file or folder.
func (h *FileHandlers) Copy(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTransfer(w, r)
	if !ok {
		return
	}
	if err := h.files.Copy(r.Context(), req.From, req.To, req.Mime); err != nil {
		h.fail(w, r, "copy", req.From, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move relocates a file or folder.
func (h *FileHandlers) Move(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTransfer(w, r)
	if !ok {
		return
	}
	if err := h.files.Move(r.Context(), req.From, req.To); err != nil {
		h.fail(w, r, "move", req.From, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFile removes a file.
func (h *FileHandlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPath(w, r)
	if !ok {
		return
	}
	if err := h.files.Delete(r.Context(), p); err != nil {
		h.fail(w, r, "delete", p, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateDir creates a folder.
func (h *FileHandlers) CreateDir(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPath(w, r)
	if !ok {
		return
	}
	if err := h.files.CreateDir(r.Context(), p); err != nil {
		h.fail(w, r, "mkdir", p, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DeleteDir removes a folder and its contents.
func (h *FileHandlers) DeleteDir(w http.ResponseWriter, r *http.Request) {
	p, ok := queryPath(w, r)
	if !ok {
		return
	}
	if err := h.files.DeleteDir(r.Context(), p); err != nil {
		h.fail(w, r, "rmdir", p, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Journal returns recorded operations, optionally filtered by path.
func (h *FileHandlers) Journal(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ops, err := h.files.History(r.Context(), r.URL.Query().Get("path"), limit)
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to read journal", "error", err)
		writeError(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	w.Header().Set("X-Journal-Count", strconv.Itoa(len(ops)))
	writeJSON(w, http.StatusOK, h.presenter.ToOperationViews(ops))
}

func (h *FileHandlers) fail(w http.ResponseWriter, r *http.Request, op, path string, err error) {
	status := statusFor(err)
	h.logger.WithContext(r.Context()).Warn("Request failed",
		"op", op,
		"path", path,
		"status", status,
		"error", err)
	writeError(w, status, err.Error())
}

func decodeTransfer(w http.ResponseWriter, r *http.Request) (transferRequest, bool) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return req, false
	}
	return req, true
}
