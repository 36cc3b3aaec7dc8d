// Package journal describes the record kept for every filesystem call made through the gateway.
package journal

import (
	"strings"
	"time"
)

// Kind names a filesystem operation.
type Kind string

const (
	KindWrite  Kind = "write"
	KindRead   Kind = "read"
	KindCopy   Kind = "copy"
	KindMove   Kind = "move"
	KindDelete Kind = "delete"
	KindMkdir  Kind = "mkdir"
	KindRmdir  Kind = "rmdir"
	KindList   Kind = "list"
	KindStat   Kind = "stat"
)

// Mutating reports whether operations of this kind change the library.
func (k Kind) Mutating() bool {
	switch k {
	case KindWrite, KindCopy, KindMove, KindDelete, KindMkdir, KindRmdir:
		return true
	default:
		return false
	}
}

// Status is the outcome of an operation.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Operation is one journal row.
type Operation struct {
	ID        int64         `json:"id"`
	Kind      Kind          `json:"op"`
	Path      string        `json:"path"`
	Target    string        `json:"target,omitempty"`
	Status    Status        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Bytes     *int64        `json:"bytes,omitempty"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// DurationMs is the duration rounded to whole milliseconds.
func (o Operation) DurationMs() int64 {
	return o.Duration.Milliseconds()
}

// NewOperation builds a journal entry for a finished call.
// Paths are stored in the adapter's prefixed form so lookups by path are stable.
func NewOperation(kind Kind, path, target string, started time.Time, err error) Operation {
	op := Operation{
		Kind:      kind,
		Path:      CanonicalPath(path),
		Status:    StatusOK,
		Duration:  time.Since(started),
		CreatedAt: time.Now().UTC(),
	}
	if target != "" {
		op.Target = CanonicalPath(target)
	}
	if err != nil {
		op.Status = StatusError
		op.Error = err.Error()
	}
	return op
}

// WithBytes records the payload size of the operation.
func (o Operation) WithBytes(n int64) Operation {
	o.Bytes = &n
	return o
}

// CanonicalPath returns p in the adapter's rooted form, "/a/b".
func CanonicalPath(p string) string {
	return "/" + strings.Trim(p, "/")
}
