package models

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// SchemaError reports a table whose timestamp or axis columns could not be
// detected.
type SchemaError struct {
	Path    string      // source file, when known
	Columns []string    // columns available in the table
	Found   AxisMapping // partial axis mapping at the time of failure
	Reason  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	reason := e.Reason
	if reason == "" {
		reason = "couldn't detect all axes"
	}
	fmt.Fprintf(&b, "%s in columns [%s]", reason, strings.Join(e.Columns, ", "))
	if e.Found != nil {
		fmt.Fprintf(&b, "; found %s", e.Found)
	}
	return b.String()
}

// BadArchiveError reports a corrupt or unreadable zip archive.
type BadArchiveError struct {
	Path string
	Err  error
}

func (e *BadArchiveError) Error() string {
	return fmt.Sprintf("bad or unsupported zip file %s: %v", e.Path, e.Err)
}

func (e *BadArchiveError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure on a named path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	cause := e.Err
	var pe *fs.PathError
	if errors.As(e.Err, &pe) && pe.Path == e.Path {
		cause = pe.Err
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, cause)
}

func (e *IOError) Unwrap() error { return e.Err }

// UsageError reports missing or invalid command-line input.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }
