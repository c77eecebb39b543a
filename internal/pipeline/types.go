package pipeline

import (
	"errors"
	"fmt"

	"github.com/Itqan-community/RATQ/internal/transform"
)

// Record is one entry of the generated search index.
type Record struct {
	Path     string             `json:"path"`
	Title    string             `json:"title"`
	Content  string             `json:"content"`
	Language transform.Language `json:"language"`
	Group    transform.Group    `json:"group"`
}

// Summary reports the outcome of a run.
type Summary struct {
	OutputPath string
	Indexed    int
	Errors     int
}

// ErrInvalidUTF8 is returned for files that are not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// FileError wraps a failure to read or decode a single document so callers
// can tell it apart from errors that abort the run.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }
