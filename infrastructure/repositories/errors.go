package repositories

import "fmt"

// ErrQuery wraps a failed journal statement with the operation that issued it.
type ErrQuery struct {
	Op  string
	Err error
}

func (e ErrQuery) Error() string {
	return fmt.Sprintf("journal %s: %v", e.Op, e.Err)
}

func (e ErrQuery) Unwrap() error {
	return e.Err
}
