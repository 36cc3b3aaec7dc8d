package spclient

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"regexp"
	"strconv"
)

// gosip reports failed requests as "<status line> :: <body>".
var statusPrefix = regexp.MustCompile(`^\s*(\d{3})\b`)

// statusError is returned when a raw request completes with a failure status.
type statusError struct {
	StatusCode int
	Status     string
}

func (e *statusError) Error() string {
	return e.Status
}

// statusCode extracts the HTTP status carried by err, or 0 when unknown.
func statusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	if m := statusPrefix.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}

// translate maps SharePoint failures onto io/fs sentinels while keeping the
// original message, and attaches the operation and path.
func translate(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var mapped error
	switch statusCode(err) {
	case http.StatusNotFound:
		mapped = fmt.Errorf("%w: %v", fs.ErrNotExist, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		mapped = fmt.Errorf("%w: %v", fs.ErrPermission, err)
	case http.StatusConflict:
		mapped = fmt.Errorf("%w: %v", fs.ErrExist, err)
	default:
		mapped = fmt.Errorf("sharepoint: %w", err)
	}

	return &fs.PathError{Op: op, Path: path, Err: mapped}
}
