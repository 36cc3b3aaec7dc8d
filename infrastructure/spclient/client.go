package spclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"spfs/domain/sharepoint"
	"spfs/logging"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/api"
)

// DocumentLibraryClient performs document library calls against the
// SharePoint REST API through gosip. Paths given to it are relative to the
// library root and start with a slash.
type DocumentLibraryClient struct {
	authClient    *gosip.SPClient    // Authenticated client; owns retries and throttling
	httpClient    *api.HTTPClient    // REST helper bound to authClient
	defaultConfig *api.RequestConfig // Headers applied to every REST call
	siteURL       string             // Absolute site URL without trailing slash
	libraryRoot   string             // Server-relative URL of the library root folder
	logger        *logging.Logger    // Component logger
}

// NewDocumentLibraryClient binds a gosip client to one document library of its site.
// library is the library's root folder name; empty selects "Shared Documents".
func NewDocumentLibraryClient(authClient *gosip.SPClient, library string) (*DocumentLibraryClient, error) {
	if authClient == nil || authClient.AuthCnfg == nil {
		return nil, fmt.Errorf("sharepoint client requires an auth configuration")
	}

	siteURL := strings.TrimRight(authClient.AuthCnfg.GetSiteURL(), "/")
	if siteURL == "" {
		return nil, fmt.Errorf("sharepoint client requires a site URL")
	}

	library = strings.Trim(firstNonEmpty(library, sharepoint.DefaultLibrary), "/")

	return &DocumentLibraryClient{
		authClient:    authClient,
		httpClient:    api.NewHTTPClient(authClient),
		defaultConfig: &api.RequestConfig{
			Headers: map[string]string{
				"Accept": "application/json;odata=verbose",
			},
		},
		siteURL:     siteURL,
		libraryRoot: sitePath(siteURL) + "/" + library,
		logger:      logging.Default().WithComponent("sharepoint_client"),
	}, nil
}

// createRequestConfig creates a RequestConfig with the provided context, inheriting default configuration.
func (c *DocumentLibraryClient) createRequestConfig(ctx context.Context) *api.RequestConfig {
	config := *c.defaultConfig
	config.Context = ctx
	return &config
}

// resolve turns a library path ("/a/b.txt") into a server-relative URL.
func (c *DocumentLibraryClient) resolve(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return c.libraryRoot
	}
	return c.libraryRoot + "/" + p
}

// fileEndpoint builds a GetFileByServerRelativeUrl endpoint. params are
// extra "@alias=value" query parameters used by the suffix.
func (c *DocumentLibraryClient) fileEndpoint(serverRelativeURL, suffix string, params ...string) string {
	return c.objectEndpoint("GetFileByServerRelativeUrl", serverRelativeURL, suffix, params...)
}

func (c *DocumentLibraryClient) folderEndpoint(serverRelativeURL, suffix string, params ...string) string {
	return c.objectEndpoint("GetFolderByServerRelativeUrl", serverRelativeURL, suffix, params...)
}

func (c *DocumentLibraryClient) objectEndpoint(method, serverRelativeURL, suffix string, params ...string) string {
	query := append([]string{"@p=" + odataLiteral(serverRelativeURL)}, params...)
	return fmt.Sprintf("%s/_api/web/%s(@p)%s?%s", c.siteURL, method, suffix, strings.Join(query, "&"))
}

// Upload creates or overwrites a file and returns its metadata.
func (c *DocumentLibraryClient) Upload(ctx context.Context, path string, contents io.Reader) (sharepoint.RawEntry, error) {
	folder, name := splitPath(c.resolve(path))
	if name == "" {
		return sharepoint.RawEntry{}, translate("upload", path, fmt.Errorf("missing file name"))
	}

	endpoint := c.folderEndpoint(folder, "/Files/add(url=@n,overwrite=true)", "@n="+odataLiteral(name))
	data, err := c.httpClient.Post(endpoint, contents, c.createRequestConfig(ctx))
	if err != nil {
		return sharepoint.RawEntry{}, translate("upload", path, err)
	}

	obj, err := decodeObject(data)
	if err != nil {
		return sharepoint.RawEntry{}, fmt.Errorf("decode uploaded file: %w", err)
	}

	c.logger.SharePoint("File uploaded", "path", path, "server_relative_url", obj.ServerRelativeUrl)
	return obj.toRawEntry(sharepoint.TypeFile), nil
}

// Download opens the file content stream. The caller closes it.
func (c *DocumentLibraryClient) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	endpoint := c.fileEndpoint(c.resolve(path), "/$value")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.authClient.Execute(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, translate("download", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, translate("download", path, &statusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	return resp.Body, nil
}

// Move relocates a file, or a folder when mimeType is empty.
func (c *DocumentLibraryClient) Move(ctx context.Context, path, newPath, mimeType string) error {
	src, dst := c.resolve(path), c.resolve(newPath)

	var endpoint string
	if mimeType == "" {
		endpoint = c.folderEndpoint(src, "/moveto(newurl=@d)", "@d="+odataLiteral(dst))
	} else {
		endpoint = c.fileEndpoint(src, "/moveto(newurl=@d,flags=1)", "@d="+odataLiteral(dst))
	}

	if _, err := c.httpClient.Post(endpoint, nil, c.createRequestConfig(ctx)); err != nil {
		return translate("move", path, err)
	}

	c.logger.SharePoint("Object moved", "from", path, "to", newPath)
	return nil
}

// Copy duplicates a file, or a folder when mimeType is empty.
func (c *DocumentLibraryClient) Copy(ctx context.Context, path, newPath, mimeType string) error {
	src, dst := c.resolve(path), c.resolve(newPath)

	var err error
	if mimeType == "" && !hasExtension(src) {
		endpoint := c.siteURL + "/_api/SP.MoveCopyUtil.CopyFolder()"
		var body []byte
		body, err = copyFolderBody(joinURL(c.siteURL, src), joinURL(c.siteURL, dst))
		if err == nil {
			_, err = c.httpClient.Post(endpoint, bytes.NewReader(body), c.createRequestConfig(ctx))
		}
	} else {
		endpoint := c.fileEndpoint(src, "/copyto(strnewurl=@d,boverwrite=true)", "@d="+odataLiteral(dst))
		_, err = c.httpClient.Post(endpoint, nil, c.createRequestConfig(ctx))
	}
	if err != nil {
		return translate("copy", path, err)
	}

	c.logger.SharePoint("Object copied", "from", path, "to", newPath)
	return nil
}

// copyFolderRequest is the body of SP.MoveCopyUtil.CopyFolder.
type copyFolderRequest struct {
	SrcURL  string `json:"srcUrl"`
	DestURL string `json:"destUrl"`
}

func copyFolderBody(srcURL, destURL string) ([]byte, error) {
	return json.Marshal(copyFolderRequest{SrcURL: srcURL, DestURL: destURL})
}

// Delete removes a file, falling back to the folder endpoint when no file
// exists at path.
func (c *DocumentLibraryClient) Delete(ctx context.Context, path string) error {
	target := c.resolve(path)
	if target == c.libraryRoot {
		return translate("delete", path, fmt.Errorf("refusing to delete library root"))
	}

	_, err := c.httpClient.Delete(c.fileEndpoint(target, ""), c.createRequestConfig(ctx))
	if err != nil && statusCode(err) == http.StatusNotFound {
		_, err = c.httpClient.Delete(c.folderEndpoint(target, ""), c.createRequestConfig(ctx))
	}
	if err != nil {
		return translate("delete", path, err)
	}

	c.logger.SharePoint("Object deleted", "path", path)
	return nil
}

// CreateFolder creates the folder at path. Missing parents are not created.
func (c *DocumentLibraryClient) CreateFolder(ctx context.Context, path string) error {
	endpoint := fmt.Sprintf("%s/_api/web/folders/add(@p)?@p=%s", c.siteURL, odataLiteral(c.resolve(path)))
	if _, err := c.httpClient.Post(endpoint, nil, c.createRequestConfig(ctx)); err != nil {
		return translate("mkdir", path, err)
	}

	c.logger.SharePoint("Folder created", "path", path)
	return nil
}

// GetMetadata fetches file metadata, or folder metadata when mimeType is empty.
func (c *DocumentLibraryClient) GetMetadata(ctx context.Context, path, mimeType string) (sharepoint.RawEntry, error) {
	target := c.resolve(path)

	endpoint, fallbackType := c.fileEndpoint(target, ""), sharepoint.TypeFile
	if mimeType == "" {
		endpoint, fallbackType = c.folderEndpoint(target, ""), sharepoint.TypeFolder
	}

	data, err := c.httpClient.Get(endpoint, c.createRequestConfig(ctx))
	if err != nil {
		return sharepoint.RawEntry{}, translate("stat", path, err)
	}

	obj, err := decodeObject(data)
	if err != nil {
		return sharepoint.RawEntry{}, fmt.Errorf("decode metadata: %w", err)
	}
	if obj.Exists != nil && !*obj.Exists {
		return sharepoint.RawEntry{}, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}

	return obj.toRawEntry(fallbackType), nil
}

// ListFolder returns the files of a folder and, when recursive is set, its
// sub-folders. The library's "Forms" system folder is never returned.
func (c *DocumentLibraryClient) ListFolder(ctx context.Context, path string, recursive bool) ([]sharepoint.RawEntry, error) {
	target := c.resolve(path)

	files, err := c.listCollection(ctx, target, "/Files", sharepoint.TypeFile)
	if err != nil {
		return nil, translate("list", path, err)
	}
	if !recursive {
		return files, nil
	}

	folders, err := c.listCollection(ctx, target, "/Folders", sharepoint.TypeFolder)
	if err != nil {
		return nil, translate("list", path, err)
	}

	entries := files
	for _, folder := range folders {
		if target == c.libraryRoot && folder.Name == "Forms" {
			continue
		}
		entries = append(entries, folder)
	}

	c.logger.SharePoint("Folder listed", "path", path, "entries", len(entries), "recursive", recursive)
	return entries, nil
}

func (c *DocumentLibraryClient) listCollection(ctx context.Context, folder, suffix, fallbackType string) ([]sharepoint.RawEntry, error) {
	data, err := c.httpClient.Get(c.folderEndpoint(folder, suffix), c.createRequestConfig(ctx))
	if err != nil {
		return nil, err
	}

	objs, err := decodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", strings.TrimPrefix(suffix, "/"), err)
	}

	entries := make([]sharepoint.RawEntry, 0, len(objs))
	for _, obj := range objs {
		entries = append(entries, obj.toRawEntry(fallbackType))
	}
	return entries, nil
}

func hasExtension(serverRelativeURL string) bool {
	_, name := splitPath(serverRelativeURL)
	return strings.Contains(strings.TrimPrefix(name, "."), ".")
}
