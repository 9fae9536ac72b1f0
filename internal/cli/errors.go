package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
	err  error
}

func (e notFoundError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s not found: %s (%v)", e.kind, e.id, e.err)
	}
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e notFoundError) Unwrap() error { return e.err }

func errNotFound(kind, id string, err error) error {
	return notFoundError{kind: kind, id: id, err: err}
}

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func errUsage(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}
