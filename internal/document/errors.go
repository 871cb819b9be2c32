package document

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat matches any UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrBackendUnavailable is returned by a writer backend that cannot run
	// on this host. Callers fall back to the next backend.
	ErrBackendUnavailable = errors.New("writer backend unavailable")
	// ErrAddressNotFound is recorded when a unit's address no longer
	// resolves in the reopened template.
	ErrAddressNotFound = errors.New("address not found")
)

// OpenError reports a source document that is missing, corrupt or not a
// valid container for its format.
type OpenError struct {
	Path   string
	Format Format
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s document %s: %v", e.Format, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports an extension with no registered codec.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unsupported file type: no extension"
	}
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// SaveError reports a failed commit of the output document. When several
// writer backends were tried it carries every cause.
type SaveError struct {
	Path   string
	Causes []error
}

func (e *SaveError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("save %s: %s", e.Path, strings.Join(msgs, "; "))
}

func (e *SaveError) Unwrap() []error { return e.Causes }

// Stage identifies where a unit-level failure happened.
type Stage string

const (
	StageRead      Stage = "read"
	StageTranslate Stage = "translate"
	StageWrite     Stage = "write"
)

// UnitError is a recovered failure for a single unit. The unit keeps its
// original text (translate) or is left untouched (read, write).
type UnitError struct {
	Addr  Address
	Stage Stage
	Err   error
}

func (e UnitError) Error() string {
	addr := "<nil>"
	if e.Addr != nil {
		addr = e.Addr.String()
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, addr, e.Err)
}

func (e UnitError) Unwrap() error { return e.Err }
