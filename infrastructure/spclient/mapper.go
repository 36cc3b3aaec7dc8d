package spclient

import (
	"net/url"
	"path"
	"strings"
)

// joinURL safely joins a base URL with a relative path
func joinURL(base, rel string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if strings.HasPrefix(rel, "/") {
		u.Path = rel
		return u.String()
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.Path += rel
	return u.String()
}

// firstNonEmpty returns the first non-empty string from the provided values
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// sitePath returns the server-relative path of a site URL without a trailing slash.
func sitePath(siteURL string) string {
	u, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

// odataLiteral quotes a value for use as an OData string parameter alias
// in a query string.
func odataLiteral(value string) string {
	return "'" + url.QueryEscape(strings.ReplaceAll(value, "'", "''")) + "'"
}

// splitPath separates a server-relative file URL into folder and leaf name.
func splitPath(serverRelativeURL string) (string, string) {
	dir, name := path.Split(serverRelativeURL)
	return strings.TrimRight(dir, "/"), name
}
